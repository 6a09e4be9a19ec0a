package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	StorageDriver  string
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string
	// AccountsSeedFile is a JSON chart of accounts loaded into the memory store.
	AccountsSeedFile string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LockExpiry     time.Duration
	PostRetryDelay time.Duration
	ReportTimeout  time.Duration

	WorkerEnabled     bool
	WorkerConcurrency int
	GLIntegrityCron   string
	RecurringCron     string

	JWTSecret          string
	JWTIssuer          string
	RateLimit          string
	CORSAllowedOrigins []string
}

// RedisEnabled reports whether a Redis address is configured. Without Redis the
// service falls back to in-process locking and logged events.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("ACCOUNTS_SEED_FILE", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_EXPIRY", "10s")
	v.SetDefault("POST_RETRY_DELAY", "50ms")
	v.SetDefault("REPORT_TIMEOUT", "30s")
	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONCURRENCY", 5)
	v.SetDefault("GL_INTEGRITY_CRON", "@every 1h")
	v.SetDefault("RECURRING_CRON", "@daily")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Actual environment variables override .env values and defaults.
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:       v.GetString("PGSQL_URL"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		AccountsSeedFile:  v.GetString("ACCOUNTS_SEED_FILE"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		LockExpiry:        v.GetDuration("LOCK_EXPIRY"),
		PostRetryDelay:    v.GetDuration("POST_RETRY_DELAY"),
		ReportTimeout:     v.GetDuration("REPORT_TIMEOUT"),
		WorkerEnabled:     v.GetBool("WORKER_ENABLED"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		GLIntegrityCron:   v.GetString("GL_INTEGRITY_CRON"),
		RecurringCron:     v.GetString("RECURRING_CRON"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		RateLimit:         v.GetString("RATE_LIMIT"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.LockExpiry <= 0 {
		return nil, fmt.Errorf("LOCK_EXPIRY must be positive, got %s", cfg.LockExpiry)
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 1
	}
	if cfg.WorkerEnabled && !cfg.RedisEnabled() {
		slog.Warn("WORKER_ENABLED is set but REDIS_ADDR is empty; background worker disabled")
		cfg.WorkerEnabled = false
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
