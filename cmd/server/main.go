// Package main is the entrypoint for the tracelog API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/penshort/tracelog/internal/config"
	"github.com/penshort/tracelog/internal/handler"
	"github.com/penshort/tracelog/internal/metrics"
	"github.com/penshort/tracelog/internal/middleware"
	"github.com/penshort/tracelog/internal/server"
	"github.com/penshort/tracelog/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := telemetry.Init(cfg.Log)

	// Initialize metrics
	var (
		recorder metrics.Recorder = metrics.NewNoop()
		exporter http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		exporter = prom.Handler()
	}

	tracer := telemetry.NewTracer(logger, recorder, cfg.Log.SpanEvents)

	// Setup router
	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		tracer:   tracer,
		recorder: recorder,
		exporter: exporter,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.Addr(),
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("tracer", tracer.Shutdown)

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	tracer   *telemetry.Tracer
	recorder metrics.Recorder
	exporter http.Handler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	h := handler.New()
	userHandler := handler.NewUserHandler(d.tracer, d.logger, d.recorder)
	metricsHandler := handler.NewMetricsHandler(d.exporter)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecureHeaders(d.cfg.IsProduction()))
	r.Use(middleware.Trace(d.tracer))
	r.Use(middleware.Logger(d.logger, d.recorder))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	// Operational endpoints
	r.Get("/healthz", handler.Healthz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Post("/users", userHandler.Create)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
