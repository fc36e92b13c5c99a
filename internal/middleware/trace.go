package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/penshort/tracelog/internal/telemetry"
)

// TraceIDHeader is the HTTP header carrying the request's trace ID.
const TraceIDHeader = "X-Trace-ID"

// RequestSpanName names the span opened for every request.
const RequestSpanName = "http.request"

// Trace opens a span around each request. Handlers reach it, and start
// child spans from it, through the request context.
func Trace(tracer *telemetry.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), RequestSpanName)
			defer span.End()

			span.SetTag("http.method", r.Method)
			span.SetTag("http.path", r.URL.Path)
			if requestID := GetRequestID(ctx); requestID != "" {
				span.SetTag("request.id", requestID)
			}

			w.Header().Set(TraceIDHeader, span.TraceID())
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					span.SetTag("http.route", pattern)
				}
			}
			span.SetTag("http.status_code", strconv.Itoa(wrapped.status))
		})
	}
}
