// Package acquisition implements the Acquisition Orchestrator: the state
// machine, flat-index accumulators and the session algorithm that drives
// one SpecsLab Prodigy acquisition from start to completion or abort.
package acquisition

import (
	"encoding/json"
	"fmt"
)

// State is a controller state in the acquisition state machine.
type State int

const (
	StateDisconnected State = iota
	StateIdle
	StateInitializing
	StateReady
	StateRunning
	StatePaused
	StateAborted
	StateError
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateIdle:
		return "Idle"
	case StateInitializing:
		return "Initializing"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateAborted:
		return "Aborted"
	case StateError:
		return "Error"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Terminal reports whether s ends a session; the next startAcquisition
// re-enters Initializing from any of these.
func (s State) Terminal() bool {
	switch s {
	case StateFinished, StateAborted, StateError:
		return true
	default:
		return false
	}
}

// Busy reports whether a write to an analyzer parameter must be refused
// with AcquisitionBusy while the controller is in this state.
func (s State) Busy() bool {
	return s == StateRunning || s == StatePaused
}

// MarshalJSON renders the state by name, so history records and API
// responses read as "Running" rather than a bare integer.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the name produced by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for candidate := StateDisconnected; candidate <= StateFinished; candidate++ {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("acquisition: unknown state %q", name)
}
