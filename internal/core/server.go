// Package core provides the API chassis for the CRM service. It creates the
// chi router, enforces cross-cutting concerns -- security headers, logging,
// observability, and error handling -- before requests reach domain-specific
// handlers, and owns the shared response envelope and request validation.
package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agrodrone/internal/config"
)

// MetricsCollector defines the interface for recording API telemetry.
type MetricsCollector interface {
	// RecordRequest records API request metrics including latency and count.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// Server encapsulates all dependencies for the CRM API, allowing for easy
// injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// MetricsHandler, when set, is mounted at GET /metrics (Prometheus
	// scrape endpoint).
	MetricsHandler http.Handler

	// HealthProbes are consulted by GET /health; each probe covers one
	// critical dependency (database, weather provider).
	HealthProbes []HealthProbe

	// V1RouteRegistrars are populated by the application entry point so
	// that domain handlers register under /v1 without core importing them.
	V1RouteRegistrars []func(chi.Router)

	// closers are released on Shutdown, in registration order.
	closers []io.Closer

	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. It performs a "fail-fast" check on critical
// configuration.
//
// The caller is responsible for mounting routes (via MountRoutes) after
// construction. This separation allows tests to customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	s := &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}

	return s, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// RegisterCloser adds a resource (e.g. the database pool) to be released
// during Shutdown.
func (s *Server) RegisterCloser(c io.Closer) {
	s.closers = append(s.closers, c)
}

// Shutdown performs a graceful termination of server resources, closing
// every registered closer.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.Logger.Error("error closing resource", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("closing server resource: %w", err)
			}
		}
	}

	if firstErr != nil {
		return firstErr
	}
	s.Logger.Info("server shutdown complete")
	return nil
}
