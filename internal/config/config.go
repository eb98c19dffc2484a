// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required (API_KEY and GOOGLE_API_KEY are also accepted)")

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Addr      string
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or text

	APIKey string

	// Model selection; empty keeps the provider defaults
	CreateModel string
	EditModel   string

	// Generation
	Timeout         time.Duration
	MaxUploadMB     int
	WaitOnRateLimit bool
}

// Load reads a .env file if present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration without loading .env or validating.
func FromEnv() *Config {
	return &Config{
		Addr:            getEnvOrDefault("IMAGESTUDIO_ADDR", ":8080"),
		LogLevel:        getEnvOrDefault("IMAGESTUDIO_LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("IMAGESTUDIO_LOG_FORMAT", "json"),
		APIKey:          firstEnv("GEMINI_API_KEY", "API_KEY", "GOOGLE_API_KEY"),
		CreateModel:     os.Getenv("IMAGESTUDIO_CREATE_MODEL"),
		EditModel:       os.Getenv("IMAGESTUDIO_EDIT_MODEL"),
		Timeout:         getEnvDurationOrDefault("IMAGESTUDIO_TIMEOUT", 2*time.Minute),
		MaxUploadMB:     getEnvIntOrDefault("IMAGESTUDIO_MAX_UPLOAD_MB", 10),
		WaitOnRateLimit: getEnvBoolOrDefault("IMAGESTUDIO_WAIT_ON_RATE_LIMIT", false),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout < 0 {
		return fmt.Errorf("IMAGESTUDIO_TIMEOUT must not be negative, got %s", c.Timeout)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("IMAGESTUDIO_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format: %s (must be json or text)", c.LogFormat)
	}
	return nil
}

// MaxUploadBytes is the size limit for each uploaded image.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
