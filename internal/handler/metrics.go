package handler

import "net/http"

// MetricsHandler exposes metrics in the Prometheus exposition format.
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler creates a new MetricsHandler serving exporter.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	h.exporter.ServeHTTP(w, r)
}
