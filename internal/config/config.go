package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL    string
	JWTSecret      string
	SupabaseURL    string
	SupabaseKey    string
	StorageBaseURL string
	TelegramToken  string
	LogLevel       string
	Port           string
	DigestInterval time.Duration
	MigrationsPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		StorageBaseURL: os.Getenv("STORAGE_BASE_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		Port:           getEnvOrDefault("PORT", "8080"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	interval := getEnvOrDefault("DIGEST_INTERVAL", "30s")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_INTERVAL %q: %w", interval, err)
	}
	cfg.DigestInterval = d

	// When the storage base is not set separately, images live under the
	// same host as the Supabase REST endpoint.
	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = cfg.SupabaseURL
	}

	return cfg, nil
}

// UseSupabase reports whether the remote gateway should talk to the Supabase
// REST endpoint instead of Postgres directly.
func (c *Config) UseSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
