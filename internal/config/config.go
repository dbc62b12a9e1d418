package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
}

// AppConfig contains process-wide settings.
type AppConfig struct {
	Env           string // deployment environment label (dev, prod, ...)
	LogLevel      string // debug | info | warn | error
	AdminPassword string // password given to the seeded admin account
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path        string // SQLite database file path
	AutoMigrate bool   // apply pending migrations at startup
}

// HTTPConfig contains storefront server settings.
type HTTPConfig struct {
	Address    string // listen address (e.g., ":8080")
	StaticDir  string // directory served under /static/, empty disables it
	CORSOrigin string // comma-separated origins allowed on /api
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // gRPC health server listen address (e.g., ":50051")
}

// AuthConfig contains session settings.
type AuthConfig struct {
	SessionSecret string        // session cookie signing secret
	SessionTTL    time.Duration // session lifetime
	CookieName    string
	CookieSecure  bool
}

// Load loads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for SESSION_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	ttlHours, err := getEnvInt("SESSION_TTL_HOURS", 168)
	if err != nil {
		return nil, err
	}
	if ttlHours <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", ttlHours)
	}
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}
	cookieSecure, err := getEnvBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Env:           getEnv("APP_ENV", "dev"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "adm123"),
		},
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "app.db"),
			AutoMigrate: autoMigrate,
		},
		HTTP: HTTPConfig{
			Address:    getEnv("HTTP_ADDRESS", ":8080"),
			StaticDir:  getEnv("STATIC_DIR", ""),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", defaultSecret),
			SessionTTL:    time.Duration(ttlHours) * time.Hour,
			CookieName:    getEnv("COOKIE_NAME", "bookstore_session"),
			CookieSecure:  cookieSecure,
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvBool retrieves an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// CORSOrigins splits CORSOrigin into trimmed origins.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, p := range strings.Split(c.HTTP.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, DB: %s, HTTP: %s, gRPC: %s, Session: *** (masked) ***, Admin: *** (masked) ***}",
		c.App.Env, c.Database.Path, c.HTTP.Address, c.GRPC.Address)
}
