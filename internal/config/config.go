// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port      string
	Env       string // "development", "staging", "production"
	LogLevel  string
	LogFormat string // "text" or "json"

	// DatabaseURL is optional; the in-memory fixture store is used when empty.
	DatabaseURL string

	// RecordCacheTTL bounds how long a fetched record batch is reused. Zero disables the cache.
	RecordCacheTTL time.Duration

	// SeedData loads the fixture dataset into the record store on startup.
	SeedData bool

	// Location is the time zone crossing timestamps are scored in.
	Location *time.Location

	OTLPEndpoint string
}

const (
	DefaultPort            = "8080"
	DefaultEnv             = "development"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultCacheTTLSeconds = 30
	DefaultTimezone        = "UTC"
)

// Load reads configuration from environment variables.
// A .env file is loaded first when present (local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := parseDurationSeconds(envOrDefault("RECORD_CACHE_TTL_SECONDS", strconv.Itoa(DefaultCacheTTLSeconds)))
	if err != nil {
		return nil, err
	}
	tz := envOrDefault("CROSSING_TIMEZONE", DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("CROSSING_TIMEZONE must be an IANA time zone name, got %q: %w", tz, err)
	}

	cfg := &Config{
		Port:           envOrDefault("PORT", DefaultPort),
		Env:            envOrDefault("ENV", DefaultEnv),
		LogLevel:       envOrDefault("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      envOrDefault("LOG_FORMAT", DefaultLogFormat),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RecordCacheTTL: ttl,
		SeedData:       parseBool(envOrDefault("SEED_DATA", "true"), true),
		Location:       loc,
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	if c.RecordCacheTTL < 0 {
		return fmt.Errorf("RECORD_CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDatabase reports whether a PostgreSQL record store is configured
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationSeconds(s string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("RECORD_CACHE_TTL_SECONDS must be a whole number of seconds, got %q", s)
	}
	return time.Duration(n) * time.Second, nil
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return b
}
