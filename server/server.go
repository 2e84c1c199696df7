// Package server exposes a layout session over HTTP. A frame loop steps
// the session on a ticker while handlers apply edits between frames and
// serve renders of the latest snapshot.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/logging"
	"github.com/TFMV/forcefield/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config for the server
type Config struct {
	Addr          string
	FrameInterval time.Duration
	Render        render.OutputOptions
}

// Server serves one session
type Server struct {
	cfg        Config
	session    *graph.Session
	logger     *slog.Logger
	mux        *http.ServeMux
	handler    http.Handler
	httpServer *http.Server
}

// New builds a server for session. A nil logger discards output.
func New(session *graph.Session, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 60
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		cfg.Render = *render.NewDefaultOptions("svg")
	}

	s := &Server{
		cfg:     cfg,
		session: session,
		logger:  logger,
	}

	s.mux = http.NewServeMux()
	s.registerHandlers(s.mux)

	// Recovery must be outermost to catch everything
	var handler http.Handler = s.mux
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)

	root := http.NewServeMux()
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", handler)
	s.handler = root

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP and steps frames until ctx is done, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.RunFrames(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server startup failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting graceful shutdown of HTTP server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

// RunFrames steps the session once per frame interval until ctx is done
func (s *Server) RunFrames(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.session.Frame()
		}
	}
}
