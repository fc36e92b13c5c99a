// Package demo runs the span nesting walkthrough: a "main" span wrapping a
// "heavy_computation" span that blocks for a while to simulate work.
package demo

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zoobzio/clockz"

	"github.com/penshort/tracelog/internal/telemetry"
)

// Span names, outermost first.
const (
	RootSpanName        = "main"
	ComputationSpanName = "heavy_computation"
)

// Deps are the collaborators of Run.
type Deps struct {
	Logger       *slog.Logger
	Tracer       *telemetry.Tracer
	Clock        clockz.Clock
	WorkDuration time.Duration
}

// Run emits four info lines:
//
//	main               Server starts
//	main > heavy_comp  Computation starts
//	                   (blocks for WorkDuration)
//	main > heavy_comp  Computation ends
//	main               Shutdown server
//
// Cancelling ctx interrupts the wait; the spans are still ended.
func Run(ctx context.Context, d Deps) error {
	if d.Clock == nil {
		d.Clock = clockz.RealClock
	}

	runID := ulid.Make().String()
	logger := d.Logger.With("run_id", runID)

	ctx, span := d.Tracer.Start(ctx, RootSpanName)
	defer span.End()
	span.SetTag("run.id", runID)

	logger.InfoContext(ctx, "Server starts")
	if err := heavyComputation(ctx, logger, d); err != nil {
		logger.WarnContext(ctx, "run interrupted", "error", err)
		return err
	}
	logger.InfoContext(ctx, "Shutdown server")

	return nil
}

func heavyComputation(ctx context.Context, logger *slog.Logger, d Deps) error {
	return d.Tracer.InScope(ctx, ComputationSpanName, func(ctx context.Context) error {
		logger.InfoContext(ctx, "Computation starts")

		select {
		case <-d.Clock.After(d.WorkDuration):
		case <-ctx.Done():
			return ctx.Err()
		}

		logger.InfoContext(ctx, "Computation ends")
		return nil
	})
}
