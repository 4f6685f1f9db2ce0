// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the SQLite database (always absolute)
	LogLevel       string
	Port           int
	DevMode        bool
	PersistHistory bool   // Store generated strategies in SQLite and reload them on start
	ExportSchedule string // Cron expression with seconds field
	Export         *ExportConfig
}

// ExportConfig holds S3-compatible object storage settings for history exports
type ExportConfig struct {
	Bucket          string
	Endpoint        string // Empty for AWS; set for R2, MinIO and friends
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Enabled reports whether enough settings are present to upload exports
func (e *ExportConfig) Enabled() bool {
	return e != nil && e.Bucket != "" && e.AccessKeyID != "" && e.SecretAccessKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PRAXOS_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Port:           getEnvAsInt("GO_PORT", 8001),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PersistHistory: getEnvAsBool("PERSIST_HISTORY", true),
		ExportSchedule: getEnv("EXPORT_CRON", "0 0 * * * *"),
		Export:         loadExportConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ExportSchedule); err != nil {
		return fmt.Errorf("invalid EXPORT_CRON %q: %w", c.ExportSchedule, err)
	}

	return nil
}

// DatabasePath returns the SQLite file used for strategy history and metadata
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "vaults.db")
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		Bucket:          getEnv("EXPORT_S3_BUCKET", ""),
		Endpoint:        getEnv("EXPORT_S3_ENDPOINT", ""),
		Region:          getEnv("EXPORT_S3_REGION", "auto"),
		AccessKeyID:     getEnv("EXPORT_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("EXPORT_S3_SECRET_ACCESS_KEY", ""),
		Prefix:          getEnv("EXPORT_S3_PREFIX", ""),
	}
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
