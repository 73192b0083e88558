package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	customMiddleware "github.com/AbigailEBurns/EarningsDateUpdater/internal/middleware"
)

// NewRouter builds the status router. A nil metrics handler makes /metrics
// answer 503.
func NewRouter(source StatusSource, metrics http.Handler, runID string, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	// RequestID → RunContext → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RunContext(runID))
	r.Use(customMiddleware.StructuredLogger(logger))
	r.Use(customMiddleware.Recoverer(logger))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	status := NewStatusHandler(source, runID, logger)
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/healthz", status.Health)
		r.Get("/status", status.Status)
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	} else {
		r.Get("/metrics", metricsDisabled)
	}

	return r
}

// Server runs the status router in the background
type Server struct {
	srv      *http.Server
	listener net.Listener
	logger   *slog.Logger
	done     chan error
}

// NewServer creates a server for handler on addr
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.With(slog.String("component", "status_server")),
	}
}

// Start binds the listener and serves in a goroutine. Bind errors are
// returned immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("status server listen on %s: %w", s.srv.Addr, err)
	}
	s.listener = ln
	s.done = make(chan error, 1)

	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	s.logger.Info("Status server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, useful when listening on port 0
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.srv.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.done == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	err := <-s.done
	s.done = nil
	s.logger.Info("Status server stopped")
	return err
}
