// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"http://localhost:5173" env-separator:","`

	// StatementTimeout and LockTimeout bound how long a single statement, or a
	// wait on the trip row lock, may block before Postgres cancels it.
	StatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" env-default:"5s"`
	LockTimeout      time.Duration `env:"DB_LOCK_TIMEOUT" env-default:"3s"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	// RateLimitRPS and RateLimitBurst configure the global token bucket.
	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"20"`

	// AutoMigrate applies the embedded schema migrations at startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" env-default:"false"`

	// Timezone is the IANA zone whose calendar date is stamped on
	// registrations and payments.
	Timezone string `env:"TIMEZONE" env-default:"UTC"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	var missing []string
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("config.Load: TIMEZONE: %w", err)
	}
	return cfg, nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// trimAll trims every entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
