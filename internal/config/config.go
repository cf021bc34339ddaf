package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"pengeluaran/internal/core"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string

	// Display
	DefaultCurrency string
	Timezone        string

	// Logging
	LogLevel string

	// Export
	ExportDir string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pengeluaran.db"),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", core.DefaultCurrency),
		Timezone:        getEnv("TIMEZONE", "UTC"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ExportDir: getEnv("EXPORT_DIR", "."),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendSQLite, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if info, err := os.Stat(c.SQLiteDBPath); err == nil && info.IsDir() {
			errors = append(errors, fmt.Sprintf("SQLite database path '%s' is a directory", c.SQLiteDBPath))
		}
	}

	// Unknown codes still render, but a value that is not even three letters
	// is almost certainly a typo in the environment.
	if code := core.NormalizeCurrencyCode(c.DefaultCurrency); len(code) != 3 {
		errors = append(errors, fmt.Sprintf("invalid default currency '%s': must be a 3-letter ISO 4217 code", c.DefaultCurrency))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location returns the configured display time zone, UTC if it cannot be
// loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
