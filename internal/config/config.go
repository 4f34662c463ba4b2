package config

import (
	"os"
	"strconv"

	"regpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir   string
	OutputDir string
}

// ServerConfig holds monitoring API settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional report-archive connection settings.
// Archiving is disabled when URL is empty.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			DataDir:   getEnvOrDefault("DATA_DIR", "./data"),
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "./outputs"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// ArchiveEnabled reports whether report runs should be persisted.
func (c *Config) ArchiveEnabled() bool {
	return c.Database.URL != ""
}

func validateConfig(config *Config) error {
	if config.Paths.DataDir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	if config.Paths.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
