package config

import (
	"errors"
	"fmt"
	"net/url"
)

// minJWTSecretLength mirrors the check in package auth/jwt so a bad secret
// fails at load time.
const minJWTSecretLength = 32

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	switch c.Server.Environment {
	case "development", "production":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.environment must be \"development\" or \"production\", got %q", c.Server.Environment))
	}

	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres", "sqlite":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\", \"postgres\" or \"sqlite\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" && c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
		errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
	}
	if c.Storage.Type == "sqlite" && c.Storage.SQLite.Path == "" {
		errs = append(errs, fmt.Errorf("storage.sqlite.path is required when storage.type is \"sqlite\""))
	}
	if c.Storage.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("storage.max_size must be >= 0, got %d", c.Storage.MaxSize))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "none":
		// valid
	case "jwt":
		if len(c.Auth.JWT.Secret) < minJWTSecretLength {
			errs = append(errs, fmt.Errorf("auth.jwt.secret must be at least %d bytes when auth.type is \"jwt\"", minJWTSecretLength))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\" or \"jwt\", got %q", c.Auth.Type))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultRPM < 0 {
			errs = append(errs, fmt.Errorf("rate_limit.default_rpm must be >= 0, got %d", c.RateLimit.DefaultRPM))
		}
		for name, tier := range c.RateLimit.Tiers {
			if tier.RequestsPerMinute < 0 || tier.Burst < 0 {
				errs = append(errs, fmt.Errorf("rate_limit.tiers.%s: limits must be >= 0", name))
			}
		}
	}

	if u, err := url.Parse(c.Agent.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("agent.base_url must be an absolute http(s) URL, got %q", c.Agent.BaseURL))
	}
	if c.Agent.Delay < 0 {
		errs = append(errs, fmt.Errorf("agent.delay must be >= 0, got %s", c.Agent.Delay))
	}

	return errors.Join(errs...)
}
