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

// ConfigRequirements defines the fields that must be non-empty per environment
type ConfigRequirements struct {
	Required  []string
	Sensitive []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		Required:  []string{"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME"},
		Sensitive: []string{"DB_USER", "DB_PASSWORD", "JWT_SECRET"},
	},
	Test: {
		Required:  []string{"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME"},
		Sensitive: []string{"DB_USER", "DB_PASSWORD", "JWT_SECRET"},
	},
	CI: {
		Required:  []string{"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_SSL_MODE"},
		Sensitive: []string{"DB_PASSWORD", "JWT_SECRET"},
	},
	Production: {
		Required:  []string{"SERVER_PORT", "SERVER_HOST", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSL_MODE", "REDIS_URL"},
		Sensitive: []string{"DB_USER", "DB_PASSWORD", "JWT_SECRET", "REDIS_PASSWORD"},
	},
}

func (c *Config) field(name string) string {
	switch name {
	case "SERVER_PORT":
		return c.ServerPort
	case "SERVER_HOST":
		return c.ServerHost
	case "DB_HOST":
		return c.DBHost
	case "DB_PORT":
		return c.DBPort
	case "DB_USER":
		return c.DBUser
	case "DB_PASSWORD":
		return c.DBPassword
	case "DB_NAME":
		return c.DBName
	case "DB_SSL_MODE":
		return c.DBSSLMode
	case "REDIS_URL":
		return c.RedisURL
	case "REDIS_PASSWORD":
		return c.RedisPassword
	case "JWT_SECRET":
		return c.JWTSecret
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string
	for _, name := range reqs.Required {
		if cfg.field(name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required"}.Error())
		}
	}

	source := "secret"
	if env == CI {
		source = "environment variable"
	}
	for _, name := range reqs.Sensitive {
		if cfg.field(name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: source + " is required"}.Error())
		}
	}

	if cfg.RecipeGenerationLimit < 0 {
		errs = append(errs, ValidationError{Field: "RECIPE_GENERATION_LIMIT", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
