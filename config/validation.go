package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable in the
// current environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port is required")
	}
	if cfg.DBHost == "" {
		errors = append(errors, "database host is required")
	}
	if cfg.DBPort == "" {
		errors = append(errors, "database port is required")
	}
	if cfg.DBUser == "" {
		errors = append(errors, "database user is required (DB_USER or db_user secret)")
	}
	if cfg.DBName == "" {
		errors = append(errors, "database name is required")
	}

	env := GetEnvironment()
	if env == Production || env == CI {
		if cfg.DBPassword == "" {
			errors = append(errors, "database password is required")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
