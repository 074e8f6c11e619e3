package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads every ServerConfig field from its environment variable.
// Unset variables fall back to their env-default tag.
//
//	PORT, ENVIRONMENT
//	DATABASE_TYPE (memory|postgres|sqlite), DATABASE_URL, DB_SCHEMA, SQLITE_PATH, AUTO_MIGRATE
//	JWT_SECRET, ADMIN_API_KEY_SHA256
//	NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE
//	LOG_LEVEL, ENABLE_EVENT_LOGGING, ENABLE_TRACING
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return nil
	}
}

// WithFile reads a YAML (or JSON/TOML, by extension) config file. Environment
// variables still override values from the file.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}
}
