package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/todo-api/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID reuses an inbound X-Trace-ID or mints a uuid, echoes it on the
// response and makes it visible to chi's GetReqID and the context logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), chiMiddleware.RequestIDKey, traceID)
		ctx = logger.With(ctx, "trace_id", traceID)

		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
