package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, REACTIVITIES_CONFIG env, ./config.yaml, /etc/reactivities/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. REACTIVITIES_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/reactivities/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("REACTIVITIES_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/reactivities/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps REACTIVITIES_* environment variables to config
// fields. Malformed numeric, boolean or duration values are errors.
func applyEnvOverrides(cfg *Config) error {
	var p envParser

	p.setString("REACTIVITIES_ENVIRONMENT", &cfg.Server.Environment)
	p.setInt("REACTIVITIES_PORT", &cfg.Server.Port)
	if v := os.Getenv("REACTIVITIES_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	p.setString("REACTIVITIES_STORAGE", &cfg.Storage.Type)
	p.setBool("REACTIVITIES_STORAGE_SEED", &cfg.Storage.Seed)
	p.setInt("REACTIVITIES_STORAGE_SIZE", &cfg.Storage.MaxSize)
	p.setString("REACTIVITIES_POSTGRES_DSN", &cfg.Storage.Postgres.DSN)
	p.setString("REACTIVITIES_SQLITE_PATH", &cfg.Storage.SQLite.Path)

	p.setString("REACTIVITIES_AUTH_TYPE", &cfg.Auth.Type)
	p.setString("REACTIVITIES_JWT_SECRET", &cfg.Auth.JWT.Secret)
	p.setString("REACTIVITIES_JWT_ISSUER", &cfg.Auth.JWT.Issuer)
	p.setString("REACTIVITIES_JWT_AUDIENCE", &cfg.Auth.JWT.Audience)

	p.setBool("REACTIVITIES_RATE_LIMIT", &cfg.RateLimit.Enabled)
	p.setInt("REACTIVITIES_RATE_LIMIT_RPM", &cfg.RateLimit.DefaultRPM)
	// REACTIVITIES_RATE_LIMIT_TIERS: JSON object of tier name -> limits.
	if v := os.Getenv("REACTIVITIES_RATE_LIMIT_TIERS"); v != "" {
		tiers, err := parseTiersJSON(v)
		if err != nil {
			p.errs = append(p.errs, err)
		} else {
			cfg.RateLimit.Tiers = tiers
		}
	}

	p.setString("REACTIVITIES_API_URL", &cfg.Agent.BaseURL)
	p.setDuration("REACTIVITIES_AGENT_DELAY", &cfg.Agent.Delay)

	p.setBool("REACTIVITIES_METRICS", &cfg.Observability.Metrics.Enabled)

	return p.err()
}

// parseTiersJSON parses a JSON object of rate limit tiers.
func parseTiersJSON(jsonStr string) (map[string]TierConfig, error) {
	var tiers map[string]TierConfig
	if err := json.Unmarshal([]byte(jsonStr), &tiers); err != nil {
		return nil, fmt.Errorf("parsing REACTIVITIES_RATE_LIMIT_TIERS: %w", err)
	}
	return tiers, nil
}

// envParser collects parse failures so every malformed variable is
// reported at once.
type envParser struct {
	errs []error
}

func (p *envParser) setString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func (p *envParser) setInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = n
}

func (p *envParser) setBool(name string, dst *bool) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = b
}

func (p *envParser) setDuration(name string, dst *time.Duration) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = d
}

func (p *envParser) err() error {
	return errors.Join(p.errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	// auth.jwt.secret_file -> auth.jwt.secret
	if cfg.Auth.JWT.SecretFile != "" && cfg.Auth.JWT.Secret == "" {
		val, err := readSecretFile(cfg.Auth.JWT.SecretFile)
		if err != nil {
			return fmt.Errorf("auth.jwt.secret_file: %w", err)
		}
		cfg.Auth.JWT.Secret = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
