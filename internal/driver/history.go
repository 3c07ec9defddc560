package driver

import (
	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/history"
	"github.com/specs-group/kreiosd/internal/logger"
)

// historySink adapts a *history.Store to acquisition.HistorySink,
// translating C7's SessionOutcome into a durable SessionRecord. Recording
// failures are logged and otherwise swallowed: a history-store outage
// never affects an in-progress or future acquisition.
type historySink struct {
	store *history.Store
}

func newHistorySink(store *history.Store) *historySink {
	return &historySink{store: store}
}

func (h *historySink) RecordSession(outcome acquisition.SessionOutcome) {
	rec := history.SessionRecord{
		ID:                  outcome.ID,
		RunMode:             outcome.RunMode,
		IterationsRequested: outcome.IterationsRequested,
		IterationsCompleted: outcome.IterationsCompleted,
		Shape:               outcome.Shape,
		StartedAt:           outcome.StartedAt,
		EndedAt:             outcome.EndedAt,
		FinalState:          outcome.FinalState,
		Message:             outcome.Message,
	}
	if err := h.store.Record(rec); err != nil {
		logger.Error("failed to record session history", "session_id", outcome.ID, "error", err)
	}
}

// SetHistorySink wires store into C7 so every session's terminal
// transition is durably recorded. Passing nil is a no-op; without a
// call to SetHistorySink the driver runs with history recording
// disabled, same as before a history store existed.
func (d *Driver) SetHistorySink(store *history.Store) {
	if store == nil {
		return
	}
	d.orchestrator.SetHistorySink(newHistorySink(store))
}
