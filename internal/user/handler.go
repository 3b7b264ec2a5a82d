package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal/core/common/validation"
	"github.com/frahmantamala/todo-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserDTO) (*MessageResponse, error)
	GetByID(ctx context.Context, id int64) (*UserResponse, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*UserResponse, error)
	Delete(ctx context.Context, id int64) (*MessageResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, appErr := validation.ParseID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	resp, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, appErr := validation.ParseID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, appErr := validation.ParseID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	resp, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}
