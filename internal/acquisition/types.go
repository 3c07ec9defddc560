package acquisition

import (
	"time"

	"github.com/google/uuid"

	"github.com/specs-group/kreiosd/internal/analyzer"
)

// SessionConfig is the snapshot of user-settable scalars C7 reads at the
// start of a session. Scalar writes after this point do not affect the
// running session; they take effect at the next startAcquisition.
type SessionConfig struct {
	RunMode    analyzer.RunMode
	Inputs     analyzer.SpectrumInputs
	Iterations int64
	SafeAfter  bool
}

// Progress is published after every chunk and at session boundaries.
type Progress struct {
	Iteration          int64
	Iterations         int64
	CurrentSample      int64
	SamplesPerIteration int64
	IterationPercent   float64
	OverallPercent     float64
	RemainingSeconds   float64
	StatusText         string
}

// ScalarsProvider is the narrow view of C8 the orchestrator reads from.
// It is satisfied by the driver's published-state store.
type ScalarsProvider interface {
	CurrentScalars() SessionConfig
}

// Sink is the narrow view of C8 the orchestrator publishes into. It is
// satisfied by the driver's published-state store.
type Sink interface {
	PublishState(State)
	PublishShape(analyzer.Shape)
	PublishProgress(Progress)
	PublishArrays(spectrum, image, volume []float64)
	PublishFrame(Frame)
	PublishMessage(string)
}

// SessionOutcome summarizes one completed session for durable recording.
// It is built once, on the session's terminal state transition.
type SessionOutcome struct {
	ID                  uuid.UUID
	RunMode             analyzer.RunMode
	IterationsRequested int64
	IterationsCompleted int64
	Shape               analyzer.Shape
	StartedAt           time.Time
	EndedAt             time.Time
	FinalState          State
	Message             string
}

// HistorySink receives one SessionOutcome per session, on its terminal
// transition (Finished, Aborted or Error). Recording is best-effort and
// never gates or blocks the acquisition; a nil HistorySink disables it.
type HistorySink interface {
	RecordSession(SessionOutcome)
}
