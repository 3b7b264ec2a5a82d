package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal/auth"
	"github.com/frahmantamala/todo-api/internal/todo"
	"github.com/frahmantamala/todo-api/internal/transport/middleware"
	"github.com/frahmantamala/todo-api/internal/transport/swagger"
	"github.com/frahmantamala/todo-api/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Dependencies bundles everything the router mounts. Metrics and OpenAPI are optional.
type Dependencies struct {
	DB             Pinger
	AuthHandler    *auth.Handler
	RBAC           *auth.RBACAuthorization
	UserHandler    *user.Handler
	TodoHandler    *todo.Handler
	OpenAPI        *swagger.Document
	Metrics        *middleware.Metrics
	MetricsPath    string
	AllowedOrigins []string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)
	rbac := deps.RBAC

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.CORS(deps.AllowedOrigins))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Instrument)
	}
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))

	router.Get("/health", healthHandler.Health)
	router.Get("/ping", healthHandler.Ping)

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, deps.Metrics.Handler())
	}

	if deps.OpenAPI != nil {
		router.Method(http.MethodGet, swagger.SpecPath, deps.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.Login)
		r.Post("/refresh-access-token", deps.AuthHandler.RefreshAccessToken)
	})

	router.Group(func(pr chi.Router) {
		pr.Use(deps.AuthHandler.AuthMiddleware)

		pr.Route("/users", func(ur chi.Router) {
			ur.With(rbac.Authorize(auth.PermUsersCreate)).Post("/", deps.UserHandler.CreateUser)
			ur.With(rbac.Authorize(auth.PermUsersFetch)).Get("/{id}", deps.UserHandler.GetUser)
			ur.With(rbac.Authorize(auth.PermUsersUpdate)).Put("/{id}", deps.UserHandler.UpdateUser)
			ur.With(rbac.Authorize(auth.PermUsersDelete)).Delete("/{id}", deps.UserHandler.DeleteUser)
		})

		pr.Route("/todos", func(tr chi.Router) {
			tr.With(rbac.Authorize(auth.PermTodosCreate)).Post("/", deps.TodoHandler.CreateTodo)
			tr.With(rbac.Authorize(auth.PermTodosFetch)).Get("/all", deps.TodoHandler.GetTodos)
			tr.With(rbac.Authorize(auth.PermTodosFetch)).Get("/{id}", deps.TodoHandler.GetTodo)
			tr.With(rbac.Authorize(auth.PermTodosUpdate)).Put("/{id}", deps.TodoHandler.UpdateTodo)
			tr.With(rbac.Authorize(auth.PermTodosUpdate)).Patch("/{id}", deps.TodoHandler.ToggleTodo)
			tr.With(rbac.Authorize(auth.PermTodosDelete)).Delete("/{id}", deps.TodoHandler.DeleteTodo)
		})
	})
}
