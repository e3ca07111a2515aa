package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "CORS_ALLOW_ORIGINS", "DATABASE_URL", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME"} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
	assert.False(t, cfg.IsTest())
	assert.Contains(t, cfg.DatabaseURL, "tcp(127.0.0.1:3306)")
}

func TestFromEnv_TestMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, http://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsTest())
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Run("unknown APP_ENV", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "staging")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APP_ENV")
	})

	t.Run("unknown LOG_LEVEL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "loud")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})
}

func TestDSN(t *testing.T) {
	// --- Test Case 1: DATABASE_URL が無い場合は DB_* から組み立てる ---
	t.Run("composed from DB_* variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_USER", "app")
		t.Setenv("DB_PASS", "secret")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "3307")
		t.Setenv("DB_NAME", "tasks")

		dsn, err := DSN("")
		require.NoError(t, err)
		assert.Contains(t, dsn, "app:secret@tcp(db:3307)/tasks")
		assert.Contains(t, dsn, "parseTime=true")
		assert.Contains(t, dsn, "clientFoundRows=true")
	})

	// --- Test Case 2: DATABASE_URL を正規化する ---
	t.Run("normalizes DATABASE_URL", func(t *testing.T) {
		dsn, err := DSN("root:pw@tcp(localhost:3306)/app")
		require.NoError(t, err)
		assert.Contains(t, dsn, "root:pw@tcp(localhost:3306)/app")
		assert.Contains(t, dsn, "parseTime=true")
		assert.Contains(t, dsn, "clientFoundRows=true")
	})

	// --- Test Case 3: 不正な DATABASE_URL ---
	t.Run("rejects malformed DATABASE_URL", func(t *testing.T) {
		_, err := DSN("not a dsn")
		require.Error(t, err)
	})
}
