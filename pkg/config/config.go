// Package config provides configuration management for the bookkeeper.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	Driver   string
	SQLite   SQLiteConfig
	Postgres PostgresConfig
	Debug    bool
}

// SQLiteConfig represents the embedded SQLite storage configuration.
type SQLiteConfig struct {
	Path string
}

// PostgresConfig represents the PostgreSQL storage configuration.
type PostgresConfig struct {
	URL string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Driver: getEnvOrDefault("BOOKKEEPER_DB_DRIVER", DriverSQLite),
		SQLite: SQLiteConfig{
			Path: getEnvOrDefault("BOOKKEEPER_SQLITE_PATH", "./bookkeeper.db"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("BOOKKEEPER_DATABASE_URL"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration for the selected driver.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("missing required configuration: BOOKKEEPER_SQLITE_PATH")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("missing required configuration: BOOKKEEPER_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown database driver %q (want %q or %q)", c.Driver, DriverSQLite, DriverPostgres)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
