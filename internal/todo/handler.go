package todo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/auth"
	"github.com/frahmantamala/todo-api/internal/core/common/validation"
	"github.com/frahmantamala/todo-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateTodoDTO) (*MessageResponse, error)
	GetAll(ctx context.Context, userID int64) (*TodoListResponse, error)
	GetByID(ctx context.Context, userID, id int64) (*TodoResponse, error)
	Update(ctx context.Context, userID, id int64, dto UpdateTodoDTO) (*MessageResponse, error)
	ToggleCompleted(ctx context.Context, userID, id int64) (*MessageResponse, error)
	Delete(ctx context.Context, userID, id int64) (*MessageResponse, error)
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

// CreateTodo handles POST /todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateTodoDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), identity.ID, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// GetTodos handles GET /todos/all
func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.GetAll(r.Context(), identity.ID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// GetTodo handles GET /todos/{id}
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.GetByID(r.Context(), identity.ID, id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// UpdateTodo handles PUT /todos/{id}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	var dto UpdateTodoDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), identity.ID, id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// ToggleTodo handles PATCH /todos/{id}
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.ToggleCompleted(r.Context(), identity.ID, id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// DeleteTodo handles DELETE /todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Delete(r.Context(), identity.ID, id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingAuthHeader)
		return nil, false
	}
	return identity, true
}

func (h *Handler) identityAndID(w http.ResponseWriter, r *http.Request) (*auth.Identity, int64, bool) {
	identity, ok := h.identity(w, r)
	if !ok {
		return nil, 0, false
	}
	id, appErr := validation.ParseID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return nil, 0, false
	}
	return identity, id, true
}
