package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated  uint64
	UsersRejected map[string]uint64
	RequestCount  uint64
	SpanCounts    map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated uint64
	requestCount uint64

	mu         sync.Mutex
	rejected   map[string]uint64
	spanCounts map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		rejected:   make(map[string]uint64),
		spanCounts: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	rejected := make(map[string]uint64, len(m.rejected))
	for k, v := range m.rejected {
		rejected[k] = v
	}
	spans := make(map[string]uint64, len(m.spanCounts))
	for k, v := range m.spanCounts {
		spans[k] = v
	}

	return Snapshot{
		UsersCreated:  atomic.LoadUint64(&m.usersCreated),
		UsersRejected: rejected,
		RequestCount:  atomic.LoadUint64(&m.requestCount),
		SpanCounts:    spans,
	}
}

// IncUserCreated increments the created users counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserRejected increments the rejection counter for kind.
func (m *InMemoryRecorder) IncUserRejected(kind string) {
	m.mu.Lock()
	m.rejected[kind]++
	m.mu.Unlock()
}

// ObserveRequestDuration counts the request.
func (m *InMemoryRecorder) ObserveRequestDuration(method string, status int, duration time.Duration) {
	atomic.AddUint64(&m.requestCount, 1)
}

// ObserveSpanDuration counts completed spans by name.
func (m *InMemoryRecorder) ObserveSpanDuration(name string, duration time.Duration) {
	m.mu.Lock()
	m.spanCounts[name]++
	m.mu.Unlock()
}
