// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// User endpoint metrics
	IncUserCreated()
	IncUserRejected(kind string) // kind: "validation" or "decode"

	// HTTP metrics
	ObserveRequestDuration(method string, status int, duration time.Duration)

	// Tracing metrics
	ObserveSpanDuration(name string, duration time.Duration)
}
