// Package server exposes layout passes over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build information
//	POST /v1/layout   lay out a graph and return node positions
//
// The engine binary, engine kind, timeout and exit policy come from the
// server's configuration. Requests may only choose graph attributes
// (algorithm, rankdir, overlap, concentrate).
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gvlayout/pkg/layout"
)

// Defaults.
const (
	DefaultMaxBodyBytes  = 8 << 20
	DefaultMaxConcurrent = 4
	shutdownTimeout      = 5 * time.Second
)

// Config holds configuration for the server.
type Config struct {
	Addr          string
	Runner        *layout.Runner
	Layout        layout.Config // Base configuration for every pass
	Logger        *log.Logger
	MaxBodyBytes  int64 // DefaultMaxBodyBytes when zero
	MaxConcurrent int   // Concurrent layout passes; DefaultMaxConcurrent when zero
}

// Server serves the layout API.
type Server struct {
	cfg    Config
	logger *log.Logger
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = &layout.Runner{}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.With(middleware.Throttle(s.cfg.MaxConcurrent)).Post("/layout", s.handleLayout)
	})
	return r
}

// Serve listens on the configured address and blocks until ctx is done,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.serveListener(ctx, ln)
}

func (s *Server) serveListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving layout API", "addr", ln.Addr().String())

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down layout API")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
