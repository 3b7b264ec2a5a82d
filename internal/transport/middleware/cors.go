package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured origins. Credentials are allowed only when no origin is "*".
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TraceIDHeader},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
