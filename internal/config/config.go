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
	DataDir            string // Base directory for the sqlite databases (always absolute)
	Port               int
	LogLevel           string
	DevMode            bool
	Linkage            string // Default linkage for scheduled reallocations
	LookbackDays       int    // Price history window for scheduled reallocations
	ReallocateSchedule string // Cron expression for the standing reallocation job
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("HIERARCH_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir %q: %w", dataDir, err)
	}

	port, err := getEnvInt("PORT", 8090)
	if err != nil {
		return nil, err
	}

	lookback, err := getEnvInt("LOOKBACK_DAYS", 252)
	if err != nil {
		return nil, err
	}
	if lookback < 30 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must be at least 30, got %d", lookback)
	}

	return &Config{
		DataDir:            absDataDir,
		Port:               port,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnv("DEV_MODE", "false") == "true",
		Linkage:            getEnv("HRP_LINKAGE", "single"),
		LookbackDays:       lookback,
		ReallocateSchedule: getEnv("REALLOCATE_SCHEDULE", "@daily"),
	}, nil
}

// DatabasePath returns the path of a named database under the data directory.
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name+".db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
