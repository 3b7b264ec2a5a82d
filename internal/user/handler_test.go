package user_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/todo-api/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Handler", func() {
	var (
		router *chi.Mux
		repo   *mockRepository
	)

	BeforeEach(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo = newMockRepository()
		svc := user.NewService(repo, nil, user.Options{BCryptCost: bcrypt.MinCost, AdminUserID: 1}, quiet)
		handler := user.NewHandler(svc, quiet)

		router = chi.NewRouter()
		router.Post("/users", handler.CreateUser)
		router.Get("/users/{id}", handler.GetUser)
		router.Put("/users/{id}", handler.UpdateUser)
		router.Delete("/users/{id}", handler.DeleteUser)
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

	It("should create a user with 201", func() {
		rec, body := serve(http.MethodPost, "/users", `{"name":"New","email":"new@gmail.com","password":"Secret@123"}`)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(body["message"]).To(Equal("User created successfully"))
	})

	It("should report validation failures with 400 and details", func() {
		rec, body := serve(http.MethodPost, "/users", `{"name":"New","email":"bad","password":"Secret@123"}`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body["message"]).To(Equal("Email must be a valid format."))
		Expect(body).To(HaveKey("details"))
	})

	It("should fetch a user without exposing the password hash", func() {
		rec, body := serve(http.MethodGet, "/users/2", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["message"]).To(Equal("User fetched successfully."))
		Expect(body["user"]).To(HaveKeyWithValue("email", "test1@gmail.com"))
		Expect(body["user"]).NotTo(HaveKey("password_hash"))
	})

	It("should reject a non numeric id with 400", func() {
		rec, body := serve(http.MethodGet, "/users/abc", "")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body["message"]).To(Equal(`"id" should be a number.`))
	})

	It("should update a user", func() {
		rec, body := serve(http.MethodPut, "/users/2", `{"name":"Renamed","email":"test1@gmail.com","password":"Secret@123"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["message"]).To(Equal("User updated successfully"))
	})

	It("should forbid deleting the admin with 403", func() {
		rec, body := serve(http.MethodDelete, "/users/1", "")

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(body["message"]).To(Equal("Task forbidden."))
	})

	It("should return 404 when deleting a missing user", func() {
		rec, body := serve(http.MethodDelete, "/users/77", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(body["message"]).To(Equal("No such user found."))
	})
})
