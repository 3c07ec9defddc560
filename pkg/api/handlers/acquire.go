package handlers

import (
	"net/http"

	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/pkg/api"
)

// AcquireHandler serves the C7 acquisition control surface.
type AcquireHandler struct {
	driver *driver.Driver
}

// NewAcquireHandler creates a new acquisition handler.
func NewAcquireHandler(d *driver.Driver) *AcquireHandler {
	return &AcquireHandler{driver: d}
}

// Start handles POST /api/v1/acquire/start.
func (h *AcquireHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.driver.StartAcquisition()
	writeJSON(w, http.StatusAccepted, api.OKResponse(nil))
}

// Stop handles POST /api/v1/acquire/stop.
func (h *AcquireHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.driver.StopAcquisition()
	writeJSON(w, http.StatusAccepted, api.OKResponse(nil))
}

// Pause handles POST /api/v1/acquire/pause.
func (h *AcquireHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if err := h.driver.PauseAcquisition(r.Context()); err != nil {
		writeProtocolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse(nil))
}

// Resume handles POST /api/v1/acquire/resume.
func (h *AcquireHandler) Resume(w http.ResponseWriter, r *http.Request) {
	if err := h.driver.ResumeAcquisition(r.Context()); err != nil {
		writeProtocolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse(nil))
}

type progressResponse struct {
	Busy             bool    `json:"busy"`
	Iteration        int64   `json:"iteration"`
	Iterations       int64   `json:"iterations"`
	IterationPercent float64 `json:"iteration_percent"`
	OverallPercent   float64 `json:"overall_percent"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	StatusText       string  `json:"status_text"`
}

// Progress handles GET /api/v1/acquire/progress.
func (h *AcquireHandler) Progress(w http.ResponseWriter, r *http.Request) {
	snap := h.driver.Status()
	writeJSON(w, http.StatusOK, api.OKResponse(progressResponse{
		Busy:             h.driver.Busy(),
		Iteration:        snap.Progress.Iteration,
		Iterations:       snap.Progress.Iterations,
		IterationPercent: snap.Progress.IterationPercent,
		OverallPercent:   snap.Progress.OverallPercent,
		RemainingSeconds: snap.Progress.RemainingSeconds,
		StatusText:       snap.Progress.StatusText,
	}))
}
