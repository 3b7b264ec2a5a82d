package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func decodeBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
	return body
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler  *Handler
		tokenGen *JWTTokenGenerator
		quiet    *slog.Logger
	)

	ginkgo.BeforeEach(func() {
		quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
		tokenGen = NewJWTTokenGenerator("handler-secret-value", "", 15*time.Minute, time.Hour)
		svc := NewService(newMockCredentialStore(), tokenGen, nil, quiet)
		handler = NewHandler(svc, quiet)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should respond 200 with tokens and the user without a password hash", func() {
			// Given
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"test1@gmail.com","password":"Test@9803"}`))
			rec := httptest.NewRecorder()

			// When
			handler.Login(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			body := decodeBody(rec)
			gomega.Expect(body["message"]).To(gomega.Equal("User login successful."))
			gomega.Expect(body["accessToken"]).ToNot(gomega.BeEmpty())
			gomega.Expect(body["refreshToken"]).ToNot(gomega.BeEmpty())
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("$2b$"))
		})

		ginkgo.It("should respond 404 for an unknown email", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ghost@gmail.com","password":"Test@9803"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal("No user found with associated email."))
		})

		ginkgo.It("should respond 400 for an unreadable body", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RefreshAccessToken", func() {
		ginkgo.It("should respond 404 without an Authorization header", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-access-token", nil)
			rec := httptest.NewRecorder()

			handler.RefreshAccessToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal("No token provided."))
		})

		ginkgo.It("should respond 401 for an invalid bearer token", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-access-token", nil)
			req.Header.Set("Authorization", "Bearer badtoken")
			rec := httptest.NewRecorder()

			handler.RefreshAccessToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal("Invalid token."))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			reached   bool
			seen      *Identity
			protected http.Handler
		)

		ginkgo.BeforeEach(func() {
			reached = false
			seen = nil
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				seen, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))
		})

		ginkgo.It("should attach the identity for a valid token", func() {
			// Given
			identity := Identity{ID: 2, Name: "Test", Email: "test1@gmail.com", Permissions: []string{PermTodosFetch}}
			token, err := tokenGen.GenerateAccessToken(identity)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			req := httptest.NewRequest(http.MethodGet, "/todos/all", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			// When
			protected.ServeHTTP(rec, req)

			// Then
			gomega.Expect(reached).To(gomega.BeTrue())
			gomega.Expect(*seen).To(gomega.Equal(identity))
		})

		ginkgo.DescribeTable("rejections",
			func(header string, status int, message string) {
				req := httptest.NewRequest(http.MethodGet, "/todos/all", nil)
				if header != "" {
					req.Header.Set("Authorization", header)
				}
				rec := httptest.NewRecorder()

				protected.ServeHTTP(rec, req)

				gomega.Expect(reached).To(gomega.BeFalse())
				gomega.Expect(rec.Code).To(gomega.Equal(status))
				gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal(message))
			},
			ginkgo.Entry("missing header", "", http.StatusUnauthorized, "Authorization header not found."),
			ginkgo.Entry("not bearer", "Token abc", http.StatusUnauthorized, "No bearer token provided."),
			ginkgo.Entry("extra spaces", "Bearer  abc", http.StatusUnauthorized, "No bearer token provided."),
			ginkgo.Entry("bad token", "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid token."),
		)

		ginkgo.It("should reject an expired access token as invalid", func() {
			// Given a token signed an hour ago with a 15 minute lifetime
			issuer := NewJWTTokenGenerator("handler-secret-value", "", 15*time.Minute, time.Hour)
			issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
			token, err := issuer.GenerateAccessToken(Identity{ID: 2, Email: "test1@gmail.com", Permissions: []string{PermTodosFetch}})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			req := httptest.NewRequest(http.MethodGet, "/todos/all", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			// When
			protected.ServeHTTP(rec, req)

			// Then
			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal("Invalid token."))
		})
	})
})
