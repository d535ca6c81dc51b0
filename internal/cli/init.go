// Package cli provides common CLI initialization utilities shared by
// cmd/finanzas and cmd/finanzas-server.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/santty1906/finanzas-pro-plus/internal/config"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// LoadSettings reads the analysis settings file, creating it with defaults
// when missing. Exits the process on failure.
func LoadSettings(logger *log.Logger, path string) config.Settings {
	settings, err := config.LoadSettings(path)
	if err != nil {
		logger.Error("Failed to load settings", log.FieldError, err.Error(), log.FieldFile, path)
		os.Exit(1)
	}
	return settings
}
