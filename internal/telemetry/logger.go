// Package telemetry wires structured logging and tracing together.
//
// Logs are written with log/slog. Records logged with a context that carries
// a span are annotated with that span (name and ids) and with the names of
// every enclosing span, root first. Spans are created through Tracer, which
// wraps a tracez tracer and reports span durations to a metrics.Recorder.
package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/penshort/tracelog/internal/config"
)

var (
	initOnce      sync.Once
	defaultLogger *slog.Logger
)

// ParseLevel converts a string log level to slog.Level.
// Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a span-aware logger writing to w.
func NewLogger(w io.Writer, cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.Source,
	}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(NewSpanHandler(h))
}

// Init installs a stdout logger as the process-wide default.
// Only the first call has an effect; later calls return the installed logger.
func Init(cfg config.Log) *slog.Logger {
	initOnce.Do(func() {
		defaultLogger = NewLogger(os.Stdout, cfg)
		slog.SetDefault(defaultLogger)
	})
	return defaultLogger
}
