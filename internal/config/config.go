// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// JWTSecret signs and verifies access tokens. Required.
	JWTSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// Environment is "development" or "production". In development, 500
	// responses carry the underlying error text.
	Environment string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// TokenTTL is the lifetime of issued access tokens. Defaults to 1h.
	TokenTTL time.Duration

	// QueryTimeout bounds every persistence call. Defaults to 5s.
	QueryTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool

	// AdminEmail and AdminPassword, when both set, make sure an admin account
	// with these credentials exists at start-up.
	AdminEmail    string
	AdminPassword string
}

// rawEnv mirrors the environment one-to-one before post-parse clean-up.
type rawEnv struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,notEmpty"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment    string        `env:"APP_ENV" envDefault:"production"`
	CORSOrigins    string        `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" envDefault:"false"`
	AdminEmail     string        `env:"ADMIN_EMAIL"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables and returns a Config.
// The error names every required variable that is missing or empty.
func Load() (Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if raw.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if raw.QueryTimeout <= 0 {
		return Config{}, fmt.Errorf("config: DB_QUERY_TIMEOUT must be positive")
	}
	if raw.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config: MAX_BODY_BYTES must be positive")
	}

	return Config{
		Port:           raw.Port,
		DatabaseURL:    raw.DatabaseURL,
		JWTSecret:      raw.JWTSecret,
		LogLevel:       raw.LogLevel,
		Environment:    strings.ToLower(strings.TrimSpace(raw.Environment)),
		CORSOrigins:    splitCSV(raw.CORSOrigins),
		TokenTTL:       raw.TokenTTL,
		QueryTimeout:   raw.QueryTimeout,
		MaxBodyBytes:   raw.MaxBodyBytes,
		MigrateOnStart: raw.MigrateOnStart,
		AdminEmail:     strings.TrimSpace(raw.AdminEmail),
		AdminPassword:  raw.AdminPassword,
	}, nil
}

// IsDevelopment reports whether the server runs with development diagnostics.
func (c Config) IsDevelopment() bool { return c.Environment == "development" }

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
