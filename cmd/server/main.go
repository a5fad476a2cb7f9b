// Command server runs the reactivities activities API.
//
// Configuration is read from config.yaml (or REACTIVITIES_CONFIG) with
// REACTIVITIES_* environment overrides; see package config. A .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reactivities/reactivities/pkg/activities"
	"github.com/reactivities/reactivities/pkg/auth"
	"github.com/reactivities/reactivities/pkg/auth/jwt"
	"github.com/reactivities/reactivities/pkg/config"
	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/storage/memory"
	"github.com/reactivities/reactivities/pkg/storage/postgres"
	"github.com/reactivities/reactivities/pkg/storage/sqlite"
	"github.com/reactivities/reactivities/pkg/transport"
	transporthttp "github.com/reactivities/reactivities/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)
	if cats := debug.Categories(); len(cats) > 0 {
		slog.Info("debug categories enabled", "categories", cats)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Storage.Seed {
		n, err := activities.Seed(ctx, store, time.Now())
		if err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
		if n > 0 {
			slog.Info("seeded sample activities", "count", n)
		}
	}

	authMW, err := authMiddleware(cfg)
	if err != nil {
		return err
	}

	adapterCfg := transporthttp.DefaultConfig()
	adapterCfg.CORSOrigins = cfg.Server.CORSOrigins
	adapterCfg.MaxBodySize = cfg.Server.MaxBodySize
	adapterCfg.ExposeErrorDetails = cfg.Server.IsDevelopment()
	adapterCfg.DisableMetrics = !cfg.Observability.Metrics.Enabled

	srv, err := transporthttp.NewServer(store,
		transporthttp.WithAddr(":"+strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithAdapterConfig(adapterCfg),
		transporthttp.WithMiddleware(authMW),
	)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	slog.Info("configuration loaded",
		"environment", cfg.Server.Environment,
		"storage", cfg.Storage.Type,
		"auth", cfg.Auth.Type,
		"rate_limit", cfg.RateLimit.Enabled,
	)
	return srv.ListenAndServe()
}

// openStore creates the configured activity store.
func openStore(ctx context.Context, cfg config.StorageConfig) (transport.ActivityStore, error) {
	switch cfg.Type {
	case "postgres":
		s, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		slog.Info("storage enabled", "type", "postgres")
		return s, nil
	case "sqlite":
		s, err := sqlite.New(ctx, sqlite.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		slog.Info("storage enabled", "type", "sqlite", "path", cfg.SQLite.Path)
		return s, nil
	default:
		slog.Info("storage enabled", "type", "memory", "max_size", cfg.MaxSize)
		return memory.New(cfg.MaxSize), nil
	}
}

// authMiddleware builds the authentication and rate limiting middleware.
// With auth type "none" every request runs as the anonymous identity, so
// rate limits still apply per tier.
func authMiddleware(cfg *config.Config) (func(http.Handler) http.Handler, error) {
	chain := &auth.AuthChain{DefaultDecision: auth.Yes}

	if cfg.Auth.Type == "jwt" {
		authn, err := jwt.New(jwt.Config{
			Secret:   cfg.Auth.JWT.Secret,
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
			TTL:      cfg.Auth.JWT.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating jwt authenticator: %w", err)
		}
		chain = &auth.AuthChain{
			Authenticators:  []auth.Authenticator{authn},
			DefaultDecision: auth.No,
		}
	}

	var limiter auth.RateLimiter
	if cfg.RateLimit.Enabled {
		tiers := make(map[string]auth.TierConfig, len(cfg.RateLimit.Tiers))
		for name, t := range cfg.RateLimit.Tiers {
			tiers[name] = auth.TierConfig{RequestsPerMinute: t.RequestsPerMinute, Burst: t.Burst}
		}
		limiter = auth.NewInProcessLimiter(tiers, cfg.RateLimit.DefaultRPM)
	}

	return auth.Middleware(chain, limiter, auth.DefaultBypassEndpoints), nil
}
