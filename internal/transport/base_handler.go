package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.Response{Message: message})
}

// WriteAppError maps err to its status. Anything that is not an AppError,
// or is an internal one, is reported as a bare 500.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.From(r.Context())

	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type == internal.ErrorTypeInternal {
		lg.Error("request failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	lg.Warn("request rejected", "type", appErr.Type, "code", appErr.Code, "message", appErr.Message)
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewBadRequestError("Request body is required.", internal.ErrCodeValidationFailed)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewBadRequestError("Invalid request body.", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header, split on single spaces.
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
