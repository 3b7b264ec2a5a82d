package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/todo-api/api"
	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/auth"
	authPostgres "github.com/frahmantamala/todo-api/internal/auth/postgres"
	"github.com/frahmantamala/todo-api/internal/core/events"
	"github.com/frahmantamala/todo-api/internal/todo"
	todoPostgres "github.com/frahmantamala/todo-api/internal/todo/postgres"
	"github.com/frahmantamala/todo-api/internal/transport/middleware"
	"github.com/frahmantamala/todo-api/internal/transport/rest"
	"github.com/frahmantamala/todo-api/internal/transport/swagger"
	"github.com/frahmantamala/todo-api/internal/user"
	userPostgres "github.com/frahmantamala/todo-api/internal/user/postgres"
	"github.com/frahmantamala/todo-api/pkg/logger"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.DB.Close()

	if err := setupRoutes(deps); err != nil {
		return err
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		deps.Logger.Error("Server shutdown error", "error", err)
	}
	if err := deps.EventBus.Wait(ctx); err != nil {
		deps.Logger.Warn("event handlers still running at shutdown", "error", err)
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.RefreshSecret(),
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, deps.EventBus, deps.Logger)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.EventBus, user.Options{
		BCryptCost:  cfg.Security.BCryptCost,
		AdminUserID: cfg.Security.AdminUserID,
	}, deps.Logger)
	todoService := todo.NewService(todoPostgres.NewTodoRepository(deps.DB, cfg.Database.QueryTimeout), todo.Options{
		AdminUserID: cfg.Security.AdminUserID,
	}, deps.Logger)

	openAPI, err := swagger.Load(context.Background(), api.OpenAPISpec)
	if err != nil {
		return err
	}

	var metrics *middleware.Metrics
	if cfg.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = middleware.NewMetrics(registry)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		DB:             deps.DB,
		AuthHandler:    auth.NewHandler(authService, deps.Logger),
		RBAC:           auth.NewRBACAuthorization(auth.NewPermissionChecker(), deps.Logger),
		UserHandler:    user.NewHandler(userService, deps.Logger),
		TodoHandler:    todo.NewHandler(todoService, deps.Logger),
		OpenAPI:        openAPI,
		Metrics:        metrics,
		MetricsPath:    cfg.Observability.Metrics.Path,
		AllowedOrigins: cfg.Server.Origins(),
		Logger:         deps.Logger,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		EventBus: bus,
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}

// initDB opens the shared pgx pool through sqlx.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}

// initGorm layers gorm over the existing pool so both share one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, nil
}
