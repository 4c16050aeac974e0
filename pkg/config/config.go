package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration for the quality engine
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Environment
	Env string // development, staging, production

	// Pipeline output locations
	DataDir    string // root of DASV pipeline outputs (discovery/, analysis/, ...)
	HistoryDir string // alerts.json / metrics.json live here

	// Quality configuration
	QualityConfigPath string // optional YAML overrides for thresholds/gates/regions

	// Status API
	Port string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		DataDir:    getEnv("DATA_OUTPUT_DIR", "./data/outputs/macro_analysis"),
		HistoryDir: getEnv("QUALITY_HISTORY_DIR", "./data/quality"),

		QualityConfigPath: getEnv("QUALITY_CONFIG", ""),

		Port: getEnv("PORT", "8089"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_OUTPUT_DIR is required")
	}

	if c.HistoryDir == "" {
		return fmt.Errorf("QUALITY_HISTORY_DIR is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
