package telemetry

import (
	"context"
	"log/slog"
	"slices"

	"github.com/zoobzio/tracez"
)

// spanAttrKeys are written by the handler itself; tags using them are dropped.
var spanAttrKeys = []string{"name", "trace_id", "span_id", "parent_id"}

// SpanHandler decorates records with the span found in the record's context.
//
// A record logged inside a span gets, at the top level:
//
//	"span":  {"name": ..., "trace_id": ..., "span_id": ..., "parent_id": ..., <tags>...}
//	"spans": ["root", ..., "current"]
//
// Attributes and groups added through WithAttrs and WithGroup are kept aside
// and nested at Handle time, so the span attributes stay at the root even
// under logger.WithGroup.
type SpanHandler struct {
	next slog.Handler
	goas []groupOrAttrs
}

// groupOrAttrs holds either a group name or a list of attributes.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// NewSpanHandler wraps next.
func NewSpanHandler(next slog.Handler) *SpanHandler {
	return &SpanHandler{next: next}
}

func (h *SpanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SpanHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	if span := tracez.GetSpan(ctx); span != nil {
		out.AddAttrs(spanGroup(ctx, span))
		if path := SpanPath(ctx); len(path) > 0 {
			out.AddAttrs(slog.Any("spans", path))
		}
	}

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	for i := len(h.goas) - 1; i >= 0; i-- {
		goa := h.goas[i]
		if goa.group != "" {
			attrs = []slog.Attr{{Key: goa.group, Value: slog.GroupValue(attrs...)}}
			continue
		}
		attrs = append(slices.Clip(goa.attrs), attrs...)
	}
	out.AddAttrs(attrs...)

	return h.next.Handle(ctx, out)
}

func spanGroup(ctx context.Context, span *tracez.Span) slog.Attr {
	attrs := []slog.Attr{
		slog.String("name", span.Name),
		slog.String("trace_id", span.TraceID),
		slog.String("span_id", span.SpanID),
	}
	if span.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", span.ParentID))
	}

	if s := spanFromContext(ctx); s != nil && s.data == span {
		for _, tag := range s.Tags() {
			if !slices.Contains(spanAttrKeys, tag.Key) {
				attrs = append(attrs, tag)
			}
		}
	}

	return slog.Attr{Key: "span", Value: slog.GroupValue(attrs...)}
}

func (h *SpanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{attrs: slices.Clone(attrs)})
}

func (h *SpanHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.withGroupOrAttrs(groupOrAttrs{group: name})
}

func (h *SpanHandler) withGroupOrAttrs(goa groupOrAttrs) *SpanHandler {
	return &SpanHandler{
		next: h.next,
		goas: append(slices.Clip(h.goas), goa),
	}
}
