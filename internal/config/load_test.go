package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests use t.Setenv, so none of them run in parallel.

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINGUA_DATABASE_URL", "postgres://localhost:5432/lingua_test")
	t.Setenv("LINGUA_AUTH_JWT_SECRET", "test-secret-key-that-is-long-enough!")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Auth.AccessTokenLifetimeMin)
	assert.Equal(t, 7, cfg.Auth.RefreshTokenLifetimeDays)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_SERVER_PORT", "9999")
	t.Setenv("LINGUA_SERVER_LOG_LEVEL", "debug")
	t.Setenv("LINGUA_AUTH_REFRESH_TOKEN_LIFETIME_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 14, cfg.Auth.RefreshTokenLifetimeDays)
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	t.Setenv("LINGUA_DATABASE_URL", "postgres://localhost:5432/lingua_test")
	t.Setenv("LINGUA_AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("LINGUA_DATABASE_URL", "postgres://localhost:5432/lingua_test")
	t.Setenv("LINGUA_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
