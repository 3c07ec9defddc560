package handlers

import (
	"net/http"

	"github.com/specs-group/kreiosd/internal/driver"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the analyzer connection established?
type HealthHandler struct {
	driver *driver.Driver
}

// NewHealthHandler creates a new health handler.
//
// The driver parameter may be nil, in which case readiness checks will
// return unhealthy status.
func NewHealthHandler(d *driver.Driver) *HealthHandler {
	return &HealthHandler{driver: d}
}

// Liveness handles GET /health - simple liveness probe.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "kreiosd",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK when the driver has an established connection to the
// analyzer. Returns 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.driver == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("driver not initialized"))
		return
	}

	snap := h.driver.Status()
	if !snap.Connection.Connected {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("analyzer not connected"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"connected":   snap.Connection.Connected,
		"server_name": snap.Connection.ServerName,
		"ad_status":   snap.ADStatus,
		"state":       snap.State.String(),
	}))
}
