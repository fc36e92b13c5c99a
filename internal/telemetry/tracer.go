package telemetry

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/zoobzio/tracez"

	"github.com/penshort/tracelog/internal/metrics"
)

type (
	pathKey struct{}
	spanKey struct{}
)

// SpanPath returns the names of the spans enclosing ctx, root first.
func SpanPath(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	path, _ := ctx.Value(pathKey{}).([]string)
	return path
}

func withSpanName(ctx context.Context, name string) context.Context {
	parent := SpanPath(ctx)
	path := make([]string, len(parent), len(parent)+1)
	copy(path, parent)
	return context.WithValue(ctx, pathKey{}, append(path, name))
}

// Tracer creates spans and reports them when they end.
// Safe for concurrent use.
type Tracer struct {
	tracer     *tracez.Tracer
	logger     *slog.Logger
	recorder   metrics.Recorder
	spanEvents bool
}

// NewTracer creates a Tracer. With spanEvents set, every ended span is
// logged at debug level.
func NewTracer(logger *slog.Logger, recorder metrics.Recorder, spanEvents bool) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Tracer{
		tracer:     tracez.New(),
		logger:     logger,
		recorder:   recorder,
		spanEvents: spanEvents,
	}
}

// Start opens a span named name. If ctx already carries a span the new
// span becomes its child.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, active := t.tracer.StartSpan(ctx, name)
	span := &Span{
		active: active,
		data:   tracez.GetSpan(ctx),
		tracer: t,
	}
	ctx = context.WithValue(withSpanName(ctx, name), spanKey{}, span)
	span.ctx = ctx
	return ctx, span
}

// spanFromContext returns the innermost Span started through a Tracer.
func spanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// InScope runs fn inside a span named name and ends the span when fn
// returns, whatever the outcome.
func (t *Tracer) InScope(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := t.Start(ctx, name)
	defer span.End()
	return fn(ctx)
}

// Shutdown releases the tracer's background resources.
// It matches server.ShutdownFunc.
func (t *Tracer) Shutdown(_ context.Context) error {
	t.tracer.Close()
	return nil
}

func (t *Tracer) ended(ctx context.Context, s *tracez.Span) {
	t.recorder.ObserveSpanDuration(s.Name, s.Duration)

	if !t.spanEvents {
		return
	}
	t.logger.LogAttrs(ctx, slog.LevelDebug, "span closed",
		slog.Float64("duration_ms", float64(s.Duration.Microseconds())/1000),
	)
}

// Span is an open unit of work.
type Span struct {
	active *tracez.ActiveSpan
	data   *tracez.Span
	tracer *Tracer
	ctx    context.Context
	once   sync.Once

	mu    sync.Mutex
	ended bool
	tags  []slog.Attr
}

// SetTag attaches a key/value pair, replacing an earlier value for key.
// Tags show up in the span group of every record logged inside the span.
// No-op once the span has ended.
func (s *Span) SetTag(key, value string) {
	s.active.SetTag(key, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	for i := range s.tags {
		if s.tags[i].Key == key {
			s.tags[i].Value = slog.StringValue(value)
			return
		}
	}
	s.tags = append(s.tags, slog.String(key, value))
}

// Tags returns a copy of the span's tags in the order they were first set.
func (s *Span) Tags() []slog.Attr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tags)
}

// TraceID returns the id shared by every span of the trace.
func (s *Span) TraceID() string {
	return s.active.TraceID()
}

// SpanID returns the span's own id.
func (s *Span) SpanID() string {
	return s.active.SpanID()
}

// End finishes the span. Calls after the first are no-ops.
func (s *Span) End() {
	s.once.Do(func() {
		s.mu.Lock()
		s.ended = true
		s.mu.Unlock()

		s.active.Finish()
		if s.data != nil {
			s.tracer.ended(s.ctx, s.data)
		}
	})
}
