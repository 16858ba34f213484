// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"synexpos/internal/core/numerator"
)

// Config is the configuration shared by cmd/server, cmd/worker and cmd/seed.
type Config struct {
	HTTPPort string

	// DatabaseURL selects PostgreSQL. Empty runs on the in-memory store.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// RedisAddr enables the item cache and event publishing. Empty disables both.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ItemCacheTTL  time.Duration

	JWTSecret    string
	JWTAccessTTL time.Duration

	// AdminPassword bootstraps an "admin" user on the in-memory store.
	AdminPassword string

	LogLevel       string
	LogDevelopment bool

	ReceiptDir string
	StoreName  string

	SerialStrategy numerator.Strategy

	OutboxPollInterval time.Duration
	IdempotencyTTL     time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads the environment. It fails on malformed values instead of
// silently falling back, except for plain defaults.
func Load() (Config, error) {
	strategy, err := numerator.ParseStrategy(getEnv("SERIAL_STRATEGY", "strict"))
	if err != nil {
		return Config{}, fmt.Errorf("SERIAL_STRATEGY: %w", err)
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 20)),
		DBMinConns:         int32(getEnvInt("DB_MIN_CONNS", 2)),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		ItemCacheTTL:       getEnvDuration("ITEM_CACHE_TTL", 5*time.Minute),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTAccessTTL:       getEnvDuration("JWT_ACCESS_TTL", 8*time.Hour),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogDevelopment:     getEnvBool("LOG_DEVELOPMENT", false),
		ReceiptDir:         getEnv("RECEIPT_DIR", "receipts"),
		StoreName:          getEnv("STORE_NAME", "SYNEX OUTLET STORE"),
		SerialStrategy:     strategy,
		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		IdempotencyTTL:     getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}
	return nil
}

// UsesPostgres reports whether DATABASE_URL is set.
func (c Config) UsesPostgres() bool { return c.DatabaseURL != "" }

// UsesRedis reports whether REDIS_ADDR is set.
func (c Config) UsesRedis() bool { return c.RedisAddr != "" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustEnv returns the variable or exits. For values a command cannot run
// without.
func MustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
