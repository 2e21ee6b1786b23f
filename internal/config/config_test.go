package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToMemoryWithoutDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.NotEmpty(t, cfg.Auth.JWTKey)
	assert.True(t, cfg.Identity.RequireUniqueEmail)
	assert.Equal(t, 6, cfg.Identity.RequiredLength)
}

func TestLoadPicksPostgresWhenDSNSet(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/tasks")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTOutsideDevelopment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_KEY", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_KEY is not configured")

	t.Setenv("JWT_KEY", "k")
	t.Setenv("JWT_ISSUER", "iss")
	t.Setenv("JWT_AUDIENCE", "aud")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL())
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}

func TestWorkerAndRateDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("APP_ENV", "development")
	t.Setenv("WORKER_OVERDUE_CRON", "")
	require.NoError(t, os.Unsetenv("WORKER_OVERDUE_CRON"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@every 15m", cfg.Worker.OverdueCron)
	assert.Equal(t, 30, cfg.Auth.LoginRatePerMinute)

	t.Setenv("WORKER_OVERDUE_CRON", "")
	t.Setenv("AUTH_LOGIN_RATE_PER_MINUTE", "5")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Worker.OverdueCron)
	assert.Equal(t, 5, cfg.Auth.LoginRatePerMinute)
}

func TestLoadWithoutAppEnvIsProduction(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://prod-db/app")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("APP_ENV", "")
	require.NoError(t, os.Unsetenv("APP_ENV"))
	t.Setenv("JWT_KEY", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_KEY is not configured")

	t.Setenv("JWT_KEY", "prod-key")
	t.Setenv("JWT_ISSUER", "iss")
	t.Setenv("JWT_AUDIENCE", "aud")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "production", cfg.App.Env)
	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, "prod-key", cfg.Auth.JWTKey)
}
