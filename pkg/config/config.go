// Package config reads application configuration from the environment,
// with a .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Rules   RulesConfig
	Report  ReportConfig
	Ingest  IngestConfig
	Logging LoggingConfig
}

type RulesConfig struct {
	// Path to the rules file (.json or .csv). Empty or missing falls back
	// to the built-in defaults.
	Path string
}

type ReportConfig struct {
	OutputDir string
	// FilePrefix starts every generated workbook name.
	FilePrefix string
}

type IngestConfig struct {
	// HeaderScanDepth bounds the header search inside noisy exports.
	HeaderScanDepth int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Rules: RulesConfig{
			Path: getEnv("TVA_RULES_PATH", ""),
		},
		Report: ReportConfig{
			OutputDir:  getEnv("TVA_OUTPUT_DIR", "."),
			FilePrefix: getEnv("TVA_REPORT_PREFIX", "rapport_tva"),
		},
		Ingest: IngestConfig{
			HeaderScanDepth: getEnvAsInt("TVA_HEADER_SCAN_DEPTH", 30),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.Ingest.HeaderScanDepth <= 0 {
		return nil, fmt.Errorf("TVA_HEADER_SCAN_DEPTH must be positive, got %d", cfg.Ingest.HeaderScanDepth)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
