// Package main is the entry point for the AgroDrone CRM API server.
//
// It loads configuration, connects the PostgreSQL pool, wires the weather
// provider and domain handlers into the core chassis (middleware, routing,
// health checks, metrics), and serves HTTP with graceful shutdown on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"agrodrone/internal/api/handlers"
	"agrodrone/internal/config"
	"agrodrone/internal/core"
	"agrodrone/internal/db"
	"agrodrone/internal/observability"
	"agrodrone/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("agrodrone CRM API starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Port,
	)

	// Database pool. Startup fails fast if the database is unreachable.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := db.NewPool(ctx, cfg.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	leadRepo := db.NewLeadRepository(pool)
	appointmentRepo := db.NewAppointmentRepository(pool)
	taskRepo := db.NewTaskRepository(pool)

	// Metrics collector with its Prometheus scrape handler.
	metrics := observability.NewMetrics()

	// Weather provider chain: OpenWeather client -> lookup metrics -> selector.
	httpClient := &http.Client{Timeout: cfg.Weather.Timeout}
	owClient := weather.NewOpenWeatherClient(httpClient, cfg.Weather.BaseURL, cfg.Weather.APIKey.Unmask())
	provider := weather.NewInstrumentedProvider(owClient, metrics)
	weatherSvc := weather.NewService(provider, clockwork.NewRealClock(), logger)

	// Build the server chassis.
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		pool.Close()
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Metrics = metrics
	srv.MetricsHandler = metrics.Handler()
	srv.RegisterCloser(poolCloser{pool: pool})
	srv.HealthProbes = []core.HealthProbe{
		&databaseProbe{pool: pool},
	}

	// Domain handlers.
	leadHandler := handlers.NewLeadHandler(leadRepo, srv.Validator, logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, srv.Validator, logger)
	taskHandler := handlers.NewTaskHandler(taskRepo, srv.Validator, logger)
	weatherHandler := handlers.NewWeatherHandler(weatherSvc, cfg.Weather.DefaultCity, logger)
	dashboardHandler := handlers.NewDashboardHandler(
		leadRepo,
		appointmentRepo,
		taskRepo,
		clockwork.NewRealClock(),
		logger,
	)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		leadHandler.RegisterRoutes,
		appointmentHandler.RegisterRoutes,
		taskHandler.RegisterRoutes,
		weatherHandler.RegisterRoutes,
		dashboardHandler.RegisterRoutes,
	)

	// Mount all routes (middleware chain + versioned endpoints + health).
	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Channel to capture server errors from ListenAndServe.
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with a 10-second deadline.
	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	// Release server resources (DB pool).
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}

// poolCloser adapts pgxpool.Pool (whose Close returns nothing) to io.Closer
// for registration with the server chassis.
type poolCloser struct {
	pool *pgxpool.Pool
}

func (c poolCloser) Close() error {
	c.pool.Close()
	return nil
}

// databaseProbe reports database health via a pool ping.
type databaseProbe struct {
	pool *pgxpool.Pool
}

func (p *databaseProbe) Name() string { return "database" }

func (p *databaseProbe) Check(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
