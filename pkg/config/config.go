// Package config provides unified configuration for the reactivities
// server and CLI.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (REACTIVITIES_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for reactivities.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Agent         AgentConfig         `yaml:"agent"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 5000
	Environment     string        `yaml:"environment"`      // "development" or "production", default: "development"
	CORSOrigins     []string      `yaml:"cors_origins"`     // default: ["http://localhost:3000"]
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MiB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// IsDevelopment reports whether server errors may expose details.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// StorageConfig holds activity store settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory", "postgres" or "sqlite", default: "memory"
	Seed     bool           `yaml:"seed"`     // insert sample activities into an empty store, default: true
	MaxSize  int            `yaml:"max_size"` // for memory store, default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"` // default: "reactivities.db"
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type string    `yaml:"type"` // "none" or "jwt", default: "none"
	JWT  JWTConfig `yaml:"jwt"`
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	Issuer     string        `yaml:"issuer"`      // default: "reactivities"
	Audience   string        `yaml:"audience"`
	TTL        time.Duration `yaml:"ttl"` // default: 168h
}

// RateLimitConfig holds per-tier request limits.
type RateLimitConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	DefaultRPM int                   `yaml:"default_rpm"` // default: 600
	Tiers      map[string]TierConfig `yaml:"tiers"`
}

// TierConfig is the limit for one service tier.
type TierConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	Burst             int `yaml:"burst" json:"burst"`
}

// AgentConfig holds client settings for the HTTP agent.
type AgentConfig struct {
	BaseURL               string        `yaml:"base_url"` // default: "http://localhost:5000/api"
	Delay                 time.Duration `yaml:"delay"`    // default: 1s
	Timeout               time.Duration `yaml:"timeout"`  // default: 30s
	SilentEmptyBadRequest bool          `yaml:"silent_empty_bad_request"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// DebugConfig holds category debug logging settings. The
// REACTIVITIES_DEBUG and REACTIVITIES_LOG_LEVEL environment variables take
// precedence (see package debug).
type DebugConfig struct {
	Categories string `yaml:"categories"` // comma-separated, "all" for everything
	Level      string `yaml:"level"`      // default: "INFO"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            5000,
			Environment:     "development",
			CORSOrigins:     []string{"http://localhost:3000"},
			MaxBodySize:     1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Type:    "memory",
			Seed:    true,
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns:       25,
				MigrateOnStart: true,
			},
			SQLite: SQLiteConfig{
				Path: "reactivities.db",
			},
		},
		Auth: AuthConfig{
			Type: "none",
			JWT: JWTConfig{
				Issuer: "reactivities",
				TTL:    7 * 24 * time.Hour,
			},
		},
		RateLimit: RateLimitConfig{
			DefaultRPM: 600,
		},
		Agent: AgentConfig{
			BaseURL: "http://localhost:5000/api",
			Delay:   time.Second,
			Timeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
		Debug: DebugConfig{
			Level: "INFO",
		},
	}
}
