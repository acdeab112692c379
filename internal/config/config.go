// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the knobs the API server and its modules need at startup.
type Config struct {
	DatabaseURL string
	AppPort     string
	AppEnv      string
	JWTSecret   string
	JWTTTL      time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AppPort:     getenv("APP_PORT", "8080"),
		AppEnv:      getenv("APP_ENV", "development"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:      time.Duration(atoienv("JWT_TTL_HOURS", 24)) * time.Hour,
	}
}

// IsProduction reports whether the service runs in production mode.
// Logs switch to JSON output when this is true.
func (c Config) IsProduction() bool { return c.AppEnv == "production" }
