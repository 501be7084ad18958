// Package config provides configuration management for the journal
// pipeline. It loads configuration from environment variables and
// .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Vision  VisionConfig
	Storage StorageConfig
	Server  ServerConfig
	Debug   bool
}

// VisionConfig represents the document extraction API configuration.
type VisionConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	BatchConcurrency int
}

// StorageConfig locates the data directories and databases.
type StorageConfig struct {
	MasterDataDir string
	OutputDir     string
	HistoryDBPath string
	LearningDB    string
}

// ServerConfig represents the HTTP API configuration.
type ServerConfig struct {
	Port int
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

	concurrency, err := parseIntEnv("VISION_BATCH_CONCURRENCY", 5)
	if err != nil {
		return nil, err
	}
	port, err := parseIntEnv("PORT", 8000)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Vision: VisionConfig{
			APIKey:           os.Getenv("VISION_API_KEY"),
			BaseURL:          os.Getenv("VISION_API_URL"),
			Model:            os.Getenv("VISION_MODEL"),
			BatchConcurrency: concurrency,
		},
		Storage: StorageConfig{
			MasterDataDir: getEnvOrDefault("MASTER_DATA_DIR", "./master_data"),
			OutputDir:     getEnvOrDefault("OUTPUT_DIR", "./output"),
			HistoryDBPath: getEnvOrDefault("HISTORY_DB_PATH", "./data/history.db"),
			LearningDB:    getEnvOrDefault("LEARNING_DB_PATH", "./data/corrections.db"),
		},
		Server: ServerConfig{
			Port: port,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// RequireVisionAPIKey validates that document extraction can run.
func (c *Config) RequireVisionAPIKey() error {
	if c.Vision.APIKey == "" {
		return fmt.Errorf("missing required configuration: VISION_API_KEY\nPlease check your .env file or environment variables")
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

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}
