// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// Tickers optionally overrides the built-in watch list
	// (comma-separated, e.g. "HGLG11,XPLG11").
	Tickers string

	// Secondary source (brapi.dev)
	BrapiBaseURL string
	BrapiToken   string

	// Risk-free rate source (Banco Central SGS)
	BCBBaseURL string

	// DebounceMs is the quiet period after the last risk-premium change
	// before a re-run fires.
	DebounceMs int

	// RefreshSchedule is the cron spec for the periodic pipeline refresh.
	RefreshSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8001),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		Tickers:         getEnv("FII_TICKERS", ""),
		BrapiBaseURL:    getEnv("BRAPI_BASE_URL", ""),
		BrapiToken:      getEnv("BRAPI_TOKEN", ""),
		BCBBaseURL:      getEnv("BCB_BASE_URL", ""),
		DebounceMs:      getEnvAsInt("DEBOUNCE_MS", 400),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 15m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("invalid debounce: %dms", c.DebounceMs)
	}
	return nil
}

// Debounce returns the quiet period as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// getEnv retrieves an environment variable value, returning a fallback if
// the variable is not set or is empty
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
