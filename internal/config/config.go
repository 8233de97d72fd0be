// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionStoreDatabase = "database"
	SessionStoreBadger   = "badger"
)

// Config is the complete server configuration.
type Config struct {
	Port string

	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string

	SessionSecret string
	SessionStore  string
	SessionDir    string
	SessionTTL    time.Duration
	CookieSecure  bool

	BcryptCost int
	LogLevel   slog.Level

	LoginRate  float64
	LoginBurst float64
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseDriver: envOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabasePath:   envOrDefault("DATABASE_PATH", "snippets.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionStore:   envOrDefault("SESSION_STORE", SessionStoreDatabase),
		SessionDir:     envOrDefault("SESSION_DIR", "sessions"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	switch cfg.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver)
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	if cfg.SessionStore != SessionStoreDatabase && cfg.SessionStore != SessionStoreBadger {
		return nil, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreDatabase, SessionStoreBadger, cfg.SessionStore)
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(envOrDefault("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL < time.Minute {
		return nil, fmt.Errorf("SESSION_TTL must be at least 1m, got %s", cfg.SessionTTL)
	}

	if cfg.BcryptCost, err = strconv.Atoi(envOrDefault("BCRYPT_COST", "12")); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(envOrDefault("LOG_LEVEL", "info")))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.LoginRate, err = strconv.ParseFloat(envOrDefault("LOGIN_RATE", "0.2"), 64); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE: %w", err)
	}
	if cfg.LoginBurst, err = strconv.ParseFloat(envOrDefault("LOGIN_BURST", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_BURST: %w", err)
	}
	if cfg.LoginRate <= 0 || cfg.LoginBurst < 1 {
		return nil, errors.New("LOGIN_RATE must be positive and LOGIN_BURST at least 1")
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
