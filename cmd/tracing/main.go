// Package main runs the nested span walkthrough once and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoobzio/clockz"

	"github.com/penshort/tracelog/internal/config"
	"github.com/penshort/tracelog/internal/demo"
	"github.com/penshort/tracelog/internal/metrics"
	"github.com/penshort/tracelog/internal/telemetry"
)

func main() {
	cfg, err := config.LoadDemo()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger, clockz.RealClock)
	stop()

	if err != nil {
		logger.Error("tracing demo failed", "error", err)
		os.Exit(1)
	}
}

// run owns the tracer, so it is shut down on every path before main exits.
func run(ctx context.Context, cfg *config.Demo, logger *slog.Logger, clock clockz.Clock) error {
	tracer := telemetry.NewTracer(logger, metrics.NewNoop(), cfg.Log.SpanEvents)
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()

	return demo.Run(ctx, demo.Deps{
		Logger:       logger,
		Tracer:       tracer,
		Clock:        clock,
		WorkDuration: cfg.WorkDuration,
	})
}
