package todo_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/todo-api/internal/auth"
	"github.com/frahmantamala/todo-api/internal/todo"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Todo Handler", func() {
	var (
		router *chi.Mux
		caller *auth.Identity
	)

	BeforeEach(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := todo.NewService(newMockRepository(), todo.Options{AdminUserID: 1}, quiet)
		handler := todo.NewHandler(svc, quiet)
		caller = &auth.Identity{ID: 2, Name: "Test", Email: "test1@gmail.com"}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(auth.ContextWithIdentity(r.Context(), caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Post("/todos", handler.CreateTodo)
		router.Get("/todos/all", handler.GetTodos)
		router.Get("/todos/{id}", handler.GetTodo)
		router.Put("/todos/{id}", handler.UpdateTodo)
		router.Patch("/todos/{id}", handler.ToggleTodo)
		router.Delete("/todos/{id}", handler.DeleteTodo)
	})

	serve := func(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var decoded map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &decoded)).To(Succeed())
		return rec, decoded
	}

	It("should create a todo with 201", func() {
		rec, body := serve(http.MethodPost, "/todos", `{"title":"Groceries","description":"milk, eggs and bread"}`)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(body["message"]).To(Equal("Todo created successfully."))
	})

	It("should list the caller's todos", func() {
		rec, body := serve(http.MethodGet, "/todos/all", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["todos"]).To(HaveLen(1))
	})

	It("should fetch a single todo", func() {
		rec, body := serve(http.MethodGet, "/todos/1", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["todo"]).To(HaveKeyWithValue("title", "Existing"))
	})

	It("should reject a negative id with 400", func() {
		rec, body := serve(http.MethodGet, "/todos/-1", "")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body["message"]).To(Equal(`"id" should be greater than or equal to 0.`))
	})

	It("should toggle completion with PATCH", func() {
		rec, body := serve(http.MethodPatch, "/todos/1", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["message"]).To(Equal("Todo updated successfully"))
	})

	It("should delete with 200", func() {
		rec, body := serve(http.MethodDelete, "/todos/1", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["statusCode"]).To(BeNumerically("==", 200))
	})

	It("should forbid the admin with 403", func() {
		caller = &auth.Identity{ID: 1, Name: "Admin", Email: "admin@gmail.com"}

		rec, body := serve(http.MethodGet, "/todos/all", "")

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(body["message"]).To(Equal("Task forbidden."))
	})

	It("should answer 401 when no identity reached the handler", func() {
		caller = nil

		rec, _ := serve(http.MethodGet, "/todos/all", "")

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
