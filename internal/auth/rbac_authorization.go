package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	if authorizer == nil {
		authorizer = NewPermissionChecker()
	}
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
	}
}

// Check runs next only when the identity on the context holds permission.
// On any failure the response is written and next is never invoked.
func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: identity not found in context")
			ra.WriteAppError(w, r, internal.ErrMissingAuthHeader)
			return
		}

		hasAccess, err := ra.authorizer.HasPermission(r.Context(), identity.Permissions, permission)
		if err != nil {
			ra.WriteAppError(w, r, internal.NewInternalError("authorization check failed", err))
			return
		}

		if !hasAccess {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", identity.ID,
				"required_permission", permission)
			ra.WriteAppError(w, r, internal.ErrAccessForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Authorize is the router-facing form of Check.
func (ra *RBACAuthorization) Authorize(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}
