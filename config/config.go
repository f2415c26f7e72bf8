package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI environment using environment variables only
func loadCIConfig(cfg *Config) error {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisDB = 0

	return nil
}

// loadDevConfig loads configuration for development and test environments,
// reading sensitive values from Docker secrets
func loadDevConfig(cfg *Config) error {
	secrets := readSecrets([]string{
		"db_user",
		"db_password",
		"redis_password",
		"db_host",
		"db_port",
		"db_name",
		"db_ssl_mode",
		"redis_host",
		"redis_port",
		"redis_url",
		"server_port",
		"server_host",
	})

	cfg.ServerPort = firstNonEmpty(os.Getenv("SERVER_PORT"), secrets["server_port"], "8080")
	cfg.ServerHost = firstNonEmpty(os.Getenv("SERVER_HOST"), secrets["server_host"], "0.0.0.0")
	cfg.DBHost = firstNonEmpty(os.Getenv("DB_HOST"), secrets["db_host"], "localhost")
	cfg.DBPort = firstNonEmpty(os.Getenv("DB_PORT"), secrets["db_port"], "5432")
	cfg.DBUser = firstNonEmpty(os.Getenv("DB_USER"), secrets["db_user"])
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), secrets["db_password"])
	cfg.DBName = firstNonEmpty(os.Getenv("DB_NAME"), secrets["db_name"], "hearthplan")
	cfg.DBSSLMode = firstNonEmpty(os.Getenv("DB_SSL_MODE"), secrets["db_ssl_mode"], "disable")
	cfg.RedisHost = firstNonEmpty(os.Getenv("REDIS_HOST"), secrets["redis_host"], "localhost")
	cfg.RedisPort = firstNonEmpty(os.Getenv("REDIS_PORT"), secrets["redis_port"], "6379")
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), secrets["redis_password"])
	cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), secrets["redis_url"])

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	return nil
}

// loadProdConfig loads configuration for production, requiring Docker secrets
// for all sensitive values
func loadProdConfig(cfg *Config) error {
	if err := loadDevConfig(cfg); err != nil {
		return err
	}
	if cfg.DBPassword == "" {
		return fmt.Errorf("db_password secret is required in production")
	}
	return nil
}

// readSecret reads a single Docker secret file, returning "" when absent
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	content, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

func readSecrets(names []string) map[string]string {
	secrets := make(map[string]string, len(names))
	for _, name := range names {
		secrets[name] = readSecret(name)
	}
	return secrets
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
