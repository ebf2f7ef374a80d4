// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string   // Base directory for the client cache database, always absolute
	BackendURL      string   // Positions/series backend base URL
	FxURL           string   // Exchange rate service base URL
	BaseCurrency    string   // System base currency for FX warm-up
	SyncCurrencies  []string // Currencies pre-warmed by the FX refresh job
	LogLevel        string
	Port            int
	DevMode         bool
	FetchTimeoutSec int // Per-portfolio series fetch timeout
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FOLIO_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("FOLIO_PORT", 8080),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		BackendURL:      getEnv("FOLIO_BACKEND_URL", "http://localhost:9510"),
		FxURL:           getEnv("FOLIO_FX_URL", "https://api.exchangerate-api.com/v4/latest"),
		BaseCurrency:    getEnv("FOLIO_BASE_CURRENCY", "USD"),
		SyncCurrencies:  getEnvAsList("FOLIO_SYNC_CURRENCIES", []string{"USD", "EUR", "GBP", "SGD", "NZD"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		FetchTimeoutSec: getEnvAsInt("FOLIO_FETCH_TIMEOUT_SEC", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("FOLIO_BACKEND_URL is required")
	}
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("FOLIO_FETCH_TIMEOUT_SEC must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		trimmed := strings.ToUpper(strings.TrimSpace(item))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
