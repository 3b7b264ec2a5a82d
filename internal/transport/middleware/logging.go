package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
)

const (
	filtered  = "[FILTERED]"
	truncated = "[TRUNCATED]"

	// maxLoggedBody bounds how much of a request or response body is buffered for logging.
	maxLoggedBody = 64 << 10
)

// sensitiveFields are substrings of header and JSON key names that are masked in logs.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := chiMiddleware.GetReqID(r.Context())

			logRequest(logger, r, reqID)

			rw := &recordingWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rw, r)

			logResponse(logger, r, rw, time.Since(start), reqID)
		})
	}
}

// recordingWriter keeps the status and a bounded copy of the body for the response log line.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody + 1 - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(len(b), room)])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// replayBody serves the bytes already read for logging, then the rest of the original body.
type replayBody struct {
	io.Reader
	io.Closer
}

func logRequest(logger *slog.Logger, r *http.Request, reqID string) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		body, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
		r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(body), r.Body), Closer: r.Body}
	}

	logger.InfoContext(r.Context(), "incoming request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", loggedBody(body),
	)
}

func logResponse(logger *slog.Logger, r *http.Request, rw *recordingWriter, duration time.Duration, reqID string) {
	status := rw.statusCode
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	logger.Log(r.Context(), level, "response",
		"request_id", reqID,
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
		"body", loggedBody(rw.body.Bytes()),
	)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func loggedBody(body []byte) string {
	if len(body) > maxLoggedBody {
		return truncated
	}
	return filterSensitiveBody(body)
}

// filterSensitiveBody masks sensitive keys in JSON bodies. Non-JSON bodies that
// mention a sensitive field are dropped entirely.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = filterSensitiveJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterSensitiveJSON(item)
		}
		return out
	default:
		return v
	}
}
