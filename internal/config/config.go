// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the SQLite database (always absolute)
	LogLevel      string
	Port          int
	DevMode       bool
	TokenTTLHours int // Lifetime of issued auth tokens
}

// Load reads configuration from environment variables.
// A .env file in the working directory is honored if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("SWIPR_DATA_DIR", "./data")
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	port, err := strconv.Atoi(getEnv("SWIPR_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWIPR_PORT: %w", err)
	}

	tokenTTL, err := strconv.Atoi(getEnv("SWIPR_TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWIPR_TOKEN_TTL_HOURS: %w", err)
	}

	return &Config{
		DataDir:       absDir,
		LogLevel:      getEnv("SWIPR_LOG_LEVEL", "info"),
		Port:          port,
		DevMode:       getEnv("SWIPR_DEV_MODE", "") == "true",
		TokenTTLHours: tokenTTL,
	}, nil
}

// DatabasePath returns the path of the application database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "swipr.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
