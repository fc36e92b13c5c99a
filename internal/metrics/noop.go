package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserRejected is a no-op.
func (n *NoopRecorder) IncUserRejected(kind string) {}

// ObserveRequestDuration is a no-op.
func (n *NoopRecorder) ObserveRequestDuration(method string, status int, duration time.Duration) {}

// ObserveSpanDuration is a no-op.
func (n *NoopRecorder) ObserveSpanDuration(name string, duration time.Duration) {}
