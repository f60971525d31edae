// Package server provides a production-ready HTTP server wrapper with support
// for graceful shutdown and configuration defaults.
package server

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	defaultTimeout         = 5 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config defines the timeouts and address for the HTTP server.
type Config struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// withDefaults fills every zero timeout.
func (c Config) withDefaults() Config {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return c
}

// Server wraps the standard [http.Server] around a handler.
type Server struct {
	cfg        Config
	httpServer *http.Server
	logger     *log.Logger
	ln         net.Listener
	addr       string
	mu         sync.RWMutex
	ready      chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New initializes a new Server with the given config and handler.
func New(cfg Config, handler http.Handler, opts ...Option) *Server {
	cfg = cfg.withDefaults()

	s := &Server{
		cfg:    cfg,
		logger: log.Default(),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     log.NewLogLogger(s.logger.Handler(), log.LevelError),
	}

	return s
}

// Config returns the effective configuration, defaults applied.
func (s *Server) Config() Config { return s.cfg }

// Start runs the HTTP server. This call is blocking until the server is closed.
func (s *Server) Start(ctx context.Context) error {
	// 1. Define a ListenConfig to perform context-aware listening.
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	close(s.ready) // Notify that Addr() is now available
	s.logger.Info("server listening", "addr", s.addr)

	// 2. Pass the listener to the internal http.Server
	err = s.httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Run starts the server and shuts it down gracefully once ctx is done,
// waiting at most ShutdownTimeout for active requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.Start(ctx)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// Shutdown gracefully shuts down the server without interrupting active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the network address the server is listening on.
// It waits for the server to be ready, making it safe for use in tests with dynamic ports.
func (s *Server) Addr() string {
	select {
	case <-s.ready:
		// Server initialized
	case <-time.After(defaultTimeout):
		// Safety timeout
		return ""
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
