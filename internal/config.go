package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
	AdminUserID          int64         `mapstructure:"admin_user_id" validate:"min=0"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// ----------------- DEFAULTS -----------------

const (
	DefaultAccessTokenDuration  = 15 * time.Minute
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
	DefaultQueryTimeout         = 5 * time.Second
	DefaultAdminUserID          = 1
)

// ApplyDefaults fills optional keys left empty by the config source.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.QueryTimeout <= 0 {
		c.Database.QueryTimeout = DefaultQueryTimeout
	}
	if c.Security.AccessTokenDuration <= 0 {
		c.Security.AccessTokenDuration = DefaultAccessTokenDuration
	}
	if c.Security.RefreshTokenDuration <= 0 {
		c.Security.RefreshTokenDuration = DefaultRefreshTokenDuration
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = bcrypt.DefaultCost
	}
	if c.Security.JWTRefreshSecret == "" {
		c.Security.JWTRefreshSecret = c.Security.JWTSecret
	}
	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
}

// ----------------- ENV MODE -----------------

// LoadConfigFromEnv builds the config from environment variables, loading a
// .env file first when one is found.
func LoadConfigFromEnv() *Config {
	loadDotEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_SERVER_PORT", 8080),
			BaseURL:           getEnv("HTTP_SERVER_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_SERVER_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			QueryTimeout:    getEnvAsDuration("DATABASE_QUERY_TIMEOUT", DefaultQueryTimeout),
			Source:          getEnv("DATABASE_SOURCE", ""),
		},
		Security: SecurityConfig{
			JWTSecret:            getEnv("SECURITY_JWT_SECRET", ""),
			JWTRefreshSecret:     getEnv("SECURITY_JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("SECURITY_ACCESS_TOKEN_DURATION", DefaultAccessTokenDuration),
			RefreshTokenDuration: getEnvAsDuration("SECURITY_REFRESH_TOKEN_DURATION", DefaultRefreshTokenDuration),
			BCryptCost:           getEnvAsInt("SECURITY_BCRYPT_COST", bcrypt.DefaultCost),
			AdminUserID:          int64(getEnvAsInt("SECURITY_ADMIN_USER_ID", DefaultAdminUserID)),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("OBSERVABILITY_METRICS_ENABLED", true),
				Path:    getEnv("OBSERVABILITY_METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("OBSERVABILITY_LOGGING_LEVEL", "info"),
				Format: getEnv("OBSERVABILITY_LOGGING_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// loadDotEnv walks up from the working directory and loads the first .env found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

var validate = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins value.
func (c *ServerConfig) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return []string{"*"}
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.BCryptCost != 0 && (c.BCryptCost < bcrypt.MinCost || c.BCryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.RefreshTokenDuration > 0 && c.AccessTokenDuration > c.RefreshTokenDuration {
		return errors.New("access_token_duration cannot exceed refresh_token_duration")
	}
	return nil
}

// RefreshSecret falls back to the access secret when no dedicated key is set.
func (c *SecurityConfig) RefreshSecret() string {
	if c.JWTRefreshSecret != "" {
		return c.JWTRefreshSecret
	}
	return c.JWTSecret
}
