package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the client.
type Config struct {
	APIBaseURL   string
	Env          string
	ConfigDir    string
	CacheDBPath  string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	configDir := os.Getenv("PROPEASE_CONFIG")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".propease")
	}

	cfg := &Config{
		APIBaseURL:   getEnv("PROPEASE_API_URL", "http://127.0.0.1:8000/api"),
		Env:          getEnv("ENV", "development"),
		ConfigDir:    configDir,
		CacheDBPath:  getEnv("PROPEASE_CACHE_DB", filepath.Join(configDir, "cache.db")),
		PollInterval: getDuration("PROPEASE_POLL_INTERVAL", 5*time.Second),
		HTTPTimeout:  getDuration("PROPEASE_HTTP_TIMEOUT", 30*time.Second),
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
