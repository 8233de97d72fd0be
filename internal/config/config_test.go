package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/snippet-board/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

// clearEnv blanks every variable Load reads so the host environment does
// not leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL",
		"SESSION_SECRET", "SESSION_STORE", "SESSION_DIR", "SESSION_TTL",
		"COOKIE_SECURE", "BCRYPT_COST", "LOG_LEVEL", "LOGIN_RATE", "LOGIN_BURST",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", secret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "snippets.db", cfg.DatabasePath)
	assert.Equal(t, config.SessionStoreDatabase, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.InDelta(t, 0.2, cfg.LoginRate, 1e-9)
	assert.InDelta(t, 5.0, cfg.LoginBurst, 1e-9)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/snippets")
	t.Setenv("SESSION_STORE", "badger")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, config.SessionStoreBadger, cfg.SessionStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":        {"SESSION_SECRET": ""},
		"short secret":          {"SESSION_SECRET": "too-short"},
		"unknown driver":        {"DATABASE_DRIVER": "mongodb"},
		"postgres without url":  {"DATABASE_DRIVER": "postgres"},
		"unknown session store": {"SESSION_STORE": "redis"},
		"bad ttl":               {"SESSION_TTL": "forever"},
		"tiny ttl":              {"SESSION_TTL": "1s"},
		"bcrypt not a number":   {"BCRYPT_COST": "high"},
		"bcrypt too low":        {"BCRYPT_COST": "3"},
		"bcrypt too high":       {"BCRYPT_COST": "15"},
		"bad log level":         {"LOG_LEVEL": "loud"},
		"zero login rate":       {"LOGIN_RATE": "0"},
		"bad login burst":       {"LOGIN_BURST": "many"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SESSION_SECRET", secret)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// The file only fills variables that are not set at all.
	os.Unsetenv("SESSION_SECRET")
	os.Unsetenv("PORT")
	t.Setenv("BCRYPT_COST", "5")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SESSION_SECRET=" + secret + "\nPORT=7070\nBCRYPT_COST=13\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, config.LoadDotEnv(path))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 5, cfg.BcryptCost)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
