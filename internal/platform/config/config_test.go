package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 10*time.Second, cfg.LockExpiry)
	assert.Equal(t, 50*time.Millisecond, cfg.PostRetryDelay)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "@every 1h", cfg.GLIntegrityCron)
	assert.Equal(t, "@daily", cfg.RecurringCron)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfig_RecurringCronOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("RECURRING_CRON", "0 2 * * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0 2 * * *", cfg.RecurringCron)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "PGSQL_URL")
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")
}

func TestLoadConfig_WorkerNeedsRedis(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("WORKER_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.WorkerEnabled)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.WorkerEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("IS_PRODUCTION", "true")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}
