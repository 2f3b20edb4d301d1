package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HAMON_ADDR", "ENVIRONMENT", "DATABASE_URL", "REDIS_URL", "TRUSTED_PROXIES", "SEED_DEMO_DATA"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.True(t, cfg.Server.SeedDemoData, "development seeds by default")
	assert.Equal(t, int64(64*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, 5, cfg.RateLimit.Intake.MaxRequests)
	assert.Equal(t, time.Hour, cfg.RateLimit.Intake.Window)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONTACT_RATE_LIMIT_MAX", "10")
	t.Setenv("CONTACT_RATE_LIMIT_WINDOW", "30m")
	t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "0")
	t.Setenv("GLOBAL_THROTTLE_RPS", "50.5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Server.SeedDemoData)
	assert.Equal(t, 10, cfg.RateLimit.Intake.MaxRequests)
	assert.Equal(t, 30*time.Minute, cfg.RateLimit.Intake.Window)
	assert.Zero(t, cfg.RateLimit.CleanupInterval)
	assert.InDelta(t, 50.5, cfg.RateLimit.Global.PerSecond, 0.001)
	assert.Len(t, cfg.Server.TrustedProxies, 1)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnv_ReportsEveryMalformedValue(t *testing.T) {
	t.Setenv("CONTACT_RATE_LIMIT_WINDOW", "an hour")
	t.Setenv("MAX_BODY_BYTES", "lots")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/99")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACT_RATE_LIMIT_WINDOW")
	assert.Contains(t, err.Error(), "MAX_BODY_BYTES")
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestFromEnv_RejectsZeroBudget(t *testing.T) {
	t.Setenv("CONTACT_RATE_LIMIT_MAX", "0")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "CONTACT_RATE_LIMIT_*")
}
