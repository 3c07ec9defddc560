package handlers

import (
	"net/http"

	"github.com/specs-group/kreiosd/internal/history"
	"github.com/specs-group/kreiosd/pkg/api"
)

// HistoryHandler serves the durable session-record store for operator
// visibility. Nothing here gates an acquisition.
type HistoryHandler struct {
	store *history.Store
}

// NewHistoryHandler creates a new history handler. store may be nil, in
// which case List returns an empty result.
func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/v1/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, api.OKResponse([]history.SessionRecord{}))
		return
	}

	records, err := h.store.List()
	if err != nil {
		InternalServerError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse(records))
}
