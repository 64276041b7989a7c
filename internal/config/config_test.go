package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.Equal(t, time.UTC, cfg.Loc())
	assert.True(t, cfg.BillingPlaceholder.Equal(decimal.RequireFromString("0.01")))
	assert.False(t, cfg.BillingStrictFees)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	assert.EqualError(t, err, "POSTGRES_DSN is required")
}

func TestLoadRequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
}

func TestLoadRedisURL(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("REDIS_URL", "redis://default:pw@cache:6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, "default", cfg.RedisUsername)
	assert.Equal(t, "pw", cfg.RedisPassword)
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("LOCK_TTL", "3")
	t.Setenv("SHUTDOWN_TIMEOUT", "1m")
	t.Setenv("WORKER_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.LockTTL)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.WorkerInterval)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidatePlaceholder(t *testing.T) {
	cfg := Config{Env: "dev", DBMaxConns: 1, BillingPlaceholder: decimal.Zero}
	assert.Error(t, cfg.Validate())

	cfg.BillingStrictFees = true
	assert.NoError(t, cfg.Validate())
}
