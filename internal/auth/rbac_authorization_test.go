package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type failingAuthorizer struct{}

func (failingAuthorizer) HasPermission(context.Context, []string, string) (bool, error) {
	return false, errors.New("policy backend down")
}

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac     *RBACAuthorization
		invoked  int
		endpoint http.Handler
	)

	ginkgo.BeforeEach(func() {
		invoked = 0
		rbac = NewRBACAuthorization(NewPermissionChecker(), slog.New(slog.NewTextHandler(io.Discard, nil)))
		endpoint = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			invoked++
			w.WriteHeader(http.StatusCreated)
		})
	})

	request := func(identity *Identity) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/todos", nil)
		if identity != nil {
			req = req.WithContext(ContextWithIdentity(req.Context(), identity))
		}
		return req
	}

	ginkgo.It("should call the handler when the permission is held", func() {
		rec := httptest.NewRecorder()

		rbac.Authorize(PermTodosCreate)(endpoint).ServeHTTP(rec, request(&Identity{ID: 2, Permissions: []string{PermTodosCreate}}))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(invoked).To(gomega.Equal(1))
	})

	ginkgo.It("should stop with 403 and never call the handler when the permission is missing", func() {
		rec := httptest.NewRecorder()

		rbac.Authorize(PermTodosCreate)(endpoint).ServeHTTP(rec, request(&Identity{ID: 2, Permissions: []string{PermTodosFetch}}))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(invoked).To(gomega.BeZero())
		gomega.Expect(decodeBody(rec)["message"]).To(gomega.Equal("Your access is forbidden."))
	})

	ginkgo.It("should match permissions exactly", func() {
		rec := httptest.NewRecorder()

		rbac.Authorize(PermTodosCreate)(endpoint).ServeHTTP(rec, request(&Identity{ID: 2, Permissions: []string{"Todos.Create", "todos.*"}}))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(invoked).To(gomega.BeZero())
	})

	ginkgo.It("should respond 401 without an identity", func() {
		rec := httptest.NewRecorder()

		rbac.Authorize(PermTodosCreate)(endpoint).ServeHTTP(rec, request(nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(invoked).To(gomega.BeZero())
	})

	ginkgo.It("should respond 500 when the authorizer fails", func() {
		rbac = NewRBACAuthorization(failingAuthorizer{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		rec := httptest.NewRecorder()

		rbac.Authorize(PermTodosCreate)(endpoint).ServeHTTP(rec, request(&Identity{ID: 2, Permissions: []string{PermTodosCreate}}))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(invoked).To(gomega.BeZero())
	})
})

var _ = ginkgo.Describe("DefaultPermissionChecker", func() {
	ginkgo.It("should agree with the identity's own permission lookup", func() {
		identity := &Identity{Permissions: []string{PermTodosFetch, PermUsersFetch}}
		checker := NewPermissionChecker()

		for _, perm := range AllPermissions {
			ok, err := checker.HasPermission(context.Background(), identity.Permissions, perm)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.Equal(identity.HasPermission(perm)), perm)
		}
	})

	ginkgo.It("should deny everything for an empty permission set", func() {
		ok, err := NewPermissionChecker().HasPermission(context.Background(), nil, PermTodosFetch)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(ok).To(gomega.BeFalse())
	})
})
