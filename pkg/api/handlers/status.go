package handlers

import (
	"net/http"

	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/pkg/api"
)

// StatusHandler serves the C8 published-state snapshot.
type StatusHandler struct {
	driver *driver.Driver
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(d *driver.Driver) *StatusHandler {
	return &StatusHandler{driver: d}
}

// statusResponse is the wire shape of GET /api/v1/status: connection
// state, ADStatus and protocol version, plus enough control-surface state
// for an operator dashboard to render without a second round trip.
type statusResponse struct {
	Connected     bool   `json:"connected"`
	ServerName    string `json:"server_name,omitempty"`
	ProtocolMajor int    `json:"protocol_major,omitempty"`
	ProtocolMinor int    `json:"protocol_minor,omitempty"`
	State         string `json:"state"`
	ADStatus      string `json:"ad_status"`
	Message       string `json:"message,omitempty"`
	RunMode       string `json:"run_mode"`
	OperatingMode string `json:"operating_mode"`
	SafeState     bool   `json:"safe_state"`
	NumExposures  int64  `json:"num_exposures"`
}

// Get handles GET /api/v1/status.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.driver.Status()

	writeJSON(w, http.StatusOK, api.OKResponse(statusResponse{
		Connected:     snap.Connection.Connected,
		ServerName:    snap.Connection.ServerName,
		ProtocolMajor: snap.Connection.ProtocolMajor,
		ProtocolMinor: snap.Connection.ProtocolMinor,
		State:         snap.State.String(),
		ADStatus:      string(snap.ADStatus),
		Message:       snap.Message,
		RunMode:       string(snap.RunMode),
		OperatingMode: snap.OperatingMode,
		SafeState:     snap.SafeState,
		NumExposures:  snap.NumExposures,
	}))
}
