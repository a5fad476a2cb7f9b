package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reactivities/reactivities/pkg/activities"
	"github.com/reactivities/reactivities/pkg/transport"
)

// Server wraps an http.Server around the activities adapter and manages
// startup and graceful shutdown.
type Server struct {
	httpServer *http.Server
	adapter    *Adapter
	mediator   *transport.Mediator
	config     ServerConfig
	logger     *slog.Logger
}

// ServerConfig holds configuration for the server.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	Adapter         Config
	Middlewares     []func(http.Handler) http.Handler
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":5000",
		ShutdownTimeout: 30 * time.Second,
		Logger:          slog.Default(),
		Adapter:         DefaultConfig(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*ServerConfig)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(c *ServerConfig) { c.Addr = addr }
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(c *ServerConfig) { c.ShutdownTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *ServerConfig) { c.Logger = l }
}

// WithAdapterConfig replaces the adapter configuration.
func WithAdapterConfig(cfg Config) ServerOption {
	return func(c *ServerConfig) { c.Adapter = cfg }
}

// WithMiddleware appends HTTP middleware around the API routes, such as
// authentication.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(c *ServerConfig) { c.Middlewares = append(c.Middlewares, mw...) }
}

// NewServer wires store into the activity handlers and serves them.
// Mediator middleware (recovery, request ID, logging) is applied
// automatically; panic details reach clients only when the adapter's
// ExposeErrorDetails is set.
func NewServer(store transport.ActivityStore, opts ...ServerOption) (*Server, error) {
	cfg := DefaultServerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	svc, err := activities.New(store)
	if err != nil {
		return nil, fmt.Errorf("creating activity service: %w", err)
	}

	m := transport.NewMediator(
		transport.Recovery(cfg.Adapter.ExposeErrorDetails),
		transport.RequestID(),
		transport.Logging(cfg.Logger),
	)
	svc.Register(m)

	s := &Server{
		adapter:  NewAdapter(m, store, cfg.Adapter, cfg.Middlewares...),
		mediator: m,
		config:   cfg,
		logger:   cfg.Logger,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.adapter.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the server's root handler (useful with httptest).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Mediator returns the request dispatcher, for registering further handlers.
func (s *Server) Mediator() *transport.Mediator {
	return s.mediator
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM,
// then shuts down gracefully within the configured timeout.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.config.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
