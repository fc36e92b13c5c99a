package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracelog"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersCreated    prometheus.Counter
	usersRejected   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	spanDuration    *prometheus.HistogramVec
}

// NewPrometheus registers the application collectors, plus the Go runtime
// and process collectors, on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		usersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Users accepted by POST /users.",
		}),
		usersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_rejected_total",
			Help:      "Requests to POST /users rejected, by failure kind.",
		}, []string{"kind"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		spanDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "span_duration_seconds",
			Help:      "Duration of completed spans, by span name.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10},
		}, []string{"span"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// IncUserCreated increments the created users counter.
func (p *PrometheusRecorder) IncUserCreated() {
	p.usersCreated.Inc()
}

// IncUserRejected increments the rejection counter for kind.
func (p *PrometheusRecorder) IncUserRejected(kind string) {
	p.usersRejected.WithLabelValues(kind).Inc()
}

// ObserveRequestDuration records HTTP request latency.
func (p *PrometheusRecorder) ObserveRequestDuration(method string, status int, duration time.Duration) {
	p.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveSpanDuration records span latency.
func (p *PrometheusRecorder) ObserveSpanDuration(name string, duration time.Duration) {
	p.spanDuration.WithLabelValues(name).Observe(duration.Seconds())
}
