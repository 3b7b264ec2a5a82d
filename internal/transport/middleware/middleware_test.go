package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequestID", func() {
	It("should mint a trace id and expose it to chi", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = chiMiddleware.GetReqID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(rec.Header().Get(TraceIDHeader)).To(Equal(seen))
	})

	It("should keep an inbound trace id", func() {
		h := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get(TraceIDHeader)).To(Equal("abc-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should convert a panic into the generic 500 body", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&logs, nil))
		h := RecoveryMiddleware(lg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todos/all", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(Equal(map[string]interface{}{"message": "Internal Server Error"}))
		Expect(logs.String()).To(ContainSubstring("panic recovered"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should mask credentials in request and response bodies", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, nil))
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"accessToken":"eyJhbGciOi","message":"ok"}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"test1@gmail.com","password":"Test@9803"}`))
		req.Header.Set("Authorization", "Bearer secret-value")
		h.ServeHTTP(httptest.NewRecorder(), req)

		out := logs.String()
		Expect(out).NotTo(ContainSubstring("Test@9803"))
		Expect(out).NotTo(ContainSubstring("eyJhbGciOi"))
		Expect(out).NotTo(ContainSubstring("secret-value"))
		Expect(out).To(ContainSubstring("test1@gmail.com"))
	})

	It("should leave the request body readable for the handler", func() {
		var got string
		h := LoggingMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			_, _ = b.ReadFrom(r.Body)
			got = b.String()
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"a"}`)))

		Expect(got).To(Equal(`{"title":"a"}`))
	})

	It("should bound what it buffers and still hand the whole body to the handler", func() {
		var logs bytes.Buffer
		payload := `{"description":"` + strings.Repeat("x", maxLoggedBody) + `"}`
		var got int
		h := LoggingMiddleware(slog.New(slog.NewJSONHandler(&logs, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			_, _ = b.ReadFrom(r.Body)
			got = b.Len()
			_, _ = w.Write(b.Bytes())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(payload)))

		Expect(got).To(Equal(len(payload)))
		Expect(rec.Body.Len()).To(Equal(len(payload)))
		Expect(logs.String()).To(ContainSubstring(truncated))
		Expect(logs.String()).NotTo(ContainSubstring(strings.Repeat("x", 100)))
		Expect(logs.String()).To(ContainSubstring(`"response_size":` + strconv.Itoa(len(payload))))
	})

	It("should filter nested keys", func() {
		out := filterSensitiveBody([]byte(`{"user":{"name":"n","password_hash":"h"},"items":[{"refreshToken":"r"}]}`))

		Expect(out).To(ContainSubstring(`"password_hash":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"refreshToken":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"name":"n"`))
	})
})

var _ = Describe("CORS", func() {
	It("should answer a preflight from an allowed origin", func() {
		h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("should not echo an origin outside the list", func() {
		h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})
