package handler

import "net/http"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// Healthz is a liveness probe endpoint.
// The service has no dependencies, so being able to answer is enough.
//
// GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
