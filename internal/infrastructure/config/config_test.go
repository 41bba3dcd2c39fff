package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://u:p@db.supabase.co:5432/postgres
scheduling:
  token_refresh:
    skew: 2m
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db.supabase.co:5432/postgres", cfg.Database.GetDSN())
	assert.Equal(t, 2*time.Minute, cfg.Scheduling.TokenRefresh.Skew)
	assert.Equal(t, 30*time.Second, cfg.Scheduling.TokenRefresh.DebounceWindow)
	assert.Equal(t, uint64(4), cfg.Scheduling.TokenRefresh.MaxRetries)
	assert.Equal(t, "https://api.cal.com", cfg.Calcom.BaseURL)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
redis:
  host: redis.internal
`)
	t.Setenv("COACHHUB_REDIS_HOST", "redis.override")
	t.Setenv("COACHHUB_STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "redis.override:6379", cfg.Redis.GetAddr())
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
}

func TestLoad_EnvOverridesMode(t *testing.T) {
	path := writeConfig(t, "server:\n  mode: debug\n")

	cfg, err := Load("release", path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestDatabaseConfig_GetDSN_Fields(t *testing.T) {
	cfg, err := Load("", writeConfig(t, "database:\n  database: coachhub_test\n"))
	require.NoError(t, err)

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=coachhub_test sslmode=disable TimeZone=UTC",
		cfg.Database.GetDSN())
}
