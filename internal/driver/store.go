// Package driver implements the Published-State Adapter (C8) and wires
// C1-C7 into the single entry point an areaDetector-shaped IOC binds
// against: one typed parameter store guarded by a driver-wide lock,
// released around every blocking call, matching the teacher's
// pkg/metadata/lock discipline of never holding a store lock across I/O.
package driver

import (
	"fmt"
	"sync"

	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/analyzer"
)

// ValidationOutputs mirrors the attributes ValidateSpectrum produces,
// plus the non-energy channel descriptors read from C4.
type ValidationOutputs struct {
	SamplesPerIteration int64
	ValuesPerSample     int64
	NumberOfSlices      int64
	TotalSamples        int64
	NonEnergyChannels   int64
	NonEnergyMin        float64
	NonEnergyMax        float64
	NonEnergyUnits      string
}

// ConnectionInfo mirrors C1's connection attributes as published state.
type ConnectionInfo struct {
	Connected     bool
	ServerName    string
	ProtocolMajor int
	ProtocolMinor int
}

// ADStatus is the areaDetector-convention acquisition status enum.
type ADStatus string

const (
	ADStatusIdle    ADStatus = "Idle"
	ADStatusAcquire ADStatus = "Acquire"
	ADStatusAborted ADStatus = "Aborting"
	ADStatusError   ADStatus = "Error"
)

func adStatusFor(s acquisition.State) ADStatus {
	switch s {
	case acquisition.StateRunning, acquisition.StateInitializing, acquisition.StateReady:
		return ADStatusAcquire
	case acquisition.StateAborted:
		return ADStatusAborted
	case acquisition.StateError:
		return ADStatusError
	default:
		return ADStatusIdle
	}
}

// Store is the Published-State Adapter (C8): a typed parameter store
// guarded by one driver-wide lock. It implements both
// acquisition.ScalarsProvider (the orchestrator reads scalars from it)
// and acquisition.Sink (the orchestrator publishes results into it).
type Store struct {
	mu sync.RWMutex

	connection ConnectionInfo

	// Control
	numExposures        int64
	runMode             analyzer.RunMode
	operatingMode       string
	safeState           bool
	dataDelayMaxSeconds float64

	// Spectrum inputs
	inputs analyzer.SpectrumInputs

	// Validation outputs
	validation ValidationOutputs

	// Progress
	progress   acquisition.Progress
	state      acquisition.State
	message    string

	// Arrays
	spectrum []float64
	image    []float64
	volume   []float64
	frame    acquisition.Frame

	// Enum read-backs populated at connect.
	lensModeValues  []string
	scanRangeValues []string
}

// NewStore returns a Store in its initial, disconnected state.
func NewStore() *Store {
	return &Store{
		state:         acquisition.StateDisconnected,
		runMode:       analyzer.ModeFAT,
		operatingMode: "Spectroscopy",
		numExposures:  1,
	}
}

// --- acquisition.ScalarsProvider ---

// CurrentScalars returns a snapshot of the scalars the orchestrator reads
// at the start of a session.
func (s *Store) CurrentScalars() acquisition.SessionConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return acquisition.SessionConfig{
		RunMode:    s.runMode,
		Inputs:     s.inputs,
		Iterations: s.numExposures,
		SafeAfter:  s.safeState,
	}
}

// --- acquisition.Sink ---

func (s *Store) PublishState(st acquisition.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func (s *Store) PublishShape(shape analyzer.Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validation.SamplesPerIteration = shape.S
	s.validation.ValuesPerSample = shape.V
	s.validation.NumberOfSlices = shape.N
	s.validation.TotalSamples = shape.S * shape.N
}

func (s *Store) PublishProgress(p acquisition.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = p
}

func (s *Store) PublishArrays(spectrum, image, volume []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spectrum, s.image, s.volume = spectrum, image, volume
}

func (s *Store) PublishFrame(f acquisition.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
}

func (s *Store) PublishMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// --- Connection ---

// SetConnectionInfo records C1's connection attributes once Connect
// succeeds.
func (s *Store) SetConnectionInfo(info ConnectionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connection = info
	if info.Connected && s.state == acquisition.StateDisconnected {
		s.state = acquisition.StateIdle
	}
	if !info.Connected {
		s.state = acquisition.StateDisconnected
	}
}

// SetEnumReadbacks records the Lens Mode / Scan Range value lists
// obtained from the server at connect.
func (s *Store) SetEnumReadbacks(lensModes, scanRanges []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lensModeValues = lensModes
	s.scanRangeValues = scanRanges
}

// --- Snapshot for read surfaces (REST/CLI) ---

// Snapshot is a point-in-time, lock-free copy of every published
// parameter class, safe to serialize.
type Snapshot struct {
	Connection    ConnectionInfo
	State         acquisition.State
	ADStatus      ADStatus
	Message       string
	NumExposures  int64
	RunMode       analyzer.RunMode
	OperatingMode string
	SafeState     bool
	Inputs        analyzer.SpectrumInputs
	Validation    ValidationOutputs
	Progress      acquisition.Progress
	Spectrum      []float64
	Image         []float64
	Volume        []float64
	Frame         acquisition.Frame
	RunModes      []string
	OperatingModes []string
	LensModes     []string
	ScanRanges    []string
}

// Snapshot returns a consistent copy of the entire published-state store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Connection:     s.connection,
		State:          s.state,
		ADStatus:       adStatusFor(s.state),
		Message:        s.message,
		NumExposures:   s.numExposures,
		RunMode:        s.runMode,
		OperatingMode:  s.operatingMode,
		SafeState:      s.safeState,
		Inputs:         s.inputs,
		Validation:     s.validation,
		Progress:       s.progress,
		Spectrum:       s.spectrum,
		Image:          s.image,
		Volume:         s.volume,
		Frame:          s.frame,
		RunModes:       runModeStrings(),
		OperatingModes: []string{"Spectroscopy", "Momentum", "PEEM"},
		LensModes:      s.lensModeValues,
		ScanRanges:     s.scanRangeValues,
	}
}

func runModeStrings() []string {
	out := make([]string, len(analyzer.ValidModes))
	for i, m := range analyzer.ValidModes {
		out[i] = string(m)
	}
	return out
}

// --- Scalar writes (only take effect at the next startAcquisition) ---

// SetScalar writes one named spectrum-input or control scalar. Returns an
// error for an unknown name or type mismatch; callers are expected to
// have already refused this while Busy() is true.
func (s *Store) SetScalar(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case "StartEnergy":
		s.inputs.StartEnergy = value
	case "EndEnergy":
		s.inputs.EndEnergy = value
	case "StepWidth":
		s.inputs.StepWidth = value
	case "PassEnergy":
		s.inputs.PassEnergy = value
	case "KineticEnergy":
		s.inputs.KineticEnergy = value
	case "RetardingRatio":
		s.inputs.RetardingRatio = value
	case "DwellTime":
		s.inputs.DwellTime = value
	case "SampleCount":
		s.inputs.SampleCount = int64(value)
	case "NumExposures":
		s.numExposures = int64(value)
	case "DataDelayMaxSeconds":
		s.dataDelayMaxSeconds = value
	default:
		return fmt.Errorf("driver: unknown or non-numeric scalar %q", name)
	}
	return nil
}

// SetRunMode sets the run mode for the next session.
func (s *Store) SetRunMode(mode analyzer.RunMode) error {
	for _, m := range analyzer.ValidModes {
		if m == mode {
			s.mu.Lock()
			s.runMode = mode
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("driver: unknown run mode %q", mode)
}

// SetLensMode / SetScanRange / SetOperatingMode / SetSafeState set their
// respective enum or bool scalars for the next session.
func (s *Store) SetLensMode(v string) {
	s.mu.Lock()
	s.inputs.LensMode = v
	s.mu.Unlock()
}

func (s *Store) SetScanRange(v string) {
	s.mu.Lock()
	s.inputs.ScanRange = v
	s.mu.Unlock()
}

func (s *Store) SetOperatingMode(v string) {
	s.mu.Lock()
	s.operatingMode = v
	s.mu.Unlock()
}

func (s *Store) SetSafeState(v bool) {
	s.mu.Lock()
	s.safeState = v
	s.mu.Unlock()
}
