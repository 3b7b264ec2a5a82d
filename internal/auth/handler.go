package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/transport"
	"github.com/frahmantamala/todo-api/pkg/logger"
)

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

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// RefreshAccessToken handles POST /auth/refresh-access-token
func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.RefreshAccessToken(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, resp.StatusCode, resp)
}

// AuthMiddleware is the authentication gate: it resolves the bearer access
// token into an Identity on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			h.WriteAppError(w, r, internal.ErrMissingAuthHeader)
			return
		}

		token, ok := h.ExtractTokenFromHeader(r)
		if !ok {
			h.WriteAppError(w, r, internal.ErrMalformedAuthToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.WriteAppError(w, r, internal.ErrInvalidToken.WithCause(err))
			return
		}

		identity := claims.Identity()
		ctx := ContextWithIdentity(r.Context(), &identity)
		ctx = logger.With(ctx, "user_id", identity.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
