package handlers

import (
	"net/http"
	"time"

	"github.com/rzava/streamd/pkg/store"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the datastream store reachable?
type HealthHandler struct {
	store store.Store
}

// healthResponse is the response body for health endpoints.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

func healthy() healthResponse {
	return healthResponse{Status: "healthy", Timestamp: time.Now().UTC()}
}

func unhealthy(errMsg string) healthResponse {
	return healthResponse{Status: "unhealthy", Timestamp: time.Now().UTC(), Error: errMsg}
}

// NewHealthHandler creates a new health handler.
//
// The store parameter may be nil, in which case readiness reports unhealthy.
func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. Designed for Kubernetes
// liveness probes and should always succeed as long as the HTTP server is
// responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, healthy())
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK if the datastream store answers its healthcheck, 503
// Service Unavailable otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthy("store not initialized"))
		return
	}

	if err := h.store.Healthcheck(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthy(err.Error()))
		return
	}

	WriteJSONOK(w, healthy())
}
