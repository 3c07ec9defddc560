package metrics

import "time"

// AcquisitionMetrics provides observability for acquisition sessions
// (C7 orchestrator, C8 published state).
//
// Implementations can collect metrics about session lifecycle, progress,
// and sample throughput. This interface is optional - pass nil to
// disable metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	orchestrator := acquisition.NewOrchestrator(...)
//	orchestrator.SetMetrics(metrics.NewAcquisitionMetrics())
//
//	// Without metrics (zero overhead)
//	orchestrator := acquisition.NewOrchestrator(...)
type AcquisitionMetrics interface {
	// RecordSessionStart records the start of an acquisition session.
	//
	// Parameters:
	//   - runMode: FAT, SFAT, FRR, FE, or LVS
	RecordSessionStart(runMode string)

	// RecordSessionEnd records the end of an acquisition session.
	//
	// Parameters:
	//   - runMode: Run mode of the completed session
	//   - finalState: Terminal controller state (e.g., "Finished", "Aborted", "Error")
	//   - duration: Total session duration
	RecordSessionEnd(runMode string, finalState string, duration time.Duration)

	// SetActiveSession updates whether an acquisition session is currently running.
	SetActiveSession(active bool)

	// RecordIteration records the completion of one iteration within a session.
	//
	// Parameters:
	//   - runMode: Run mode of the active session
	RecordIteration(runMode string)

	// SetProgress updates the overall completion percentage of the active session.
	SetProgress(overallPercent float64)

	// RecordSamplesConsumed records samples accumulated from a GetAcquisitionData read.
	RecordSamplesConsumed(count int64)

	// RecordAbort records an operator- or error-triggered abort.
	//
	// Parameters:
	//   - reason: "operator", "protocol_error", "shape_mismatch", etc.
	RecordAbort(reason string)
}

// NewAcquisitionMetrics creates a new Prometheus-backed AcquisitionMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewAcquisitionMetrics() AcquisitionMetrics {
	if !IsEnabled() {
		return nil
	}

	return newPrometheusAcquisitionMetrics()
}

// newPrometheusAcquisitionMetrics is implemented in pkg/metrics/prometheus/acquisition.go.
var newPrometheusAcquisitionMetrics func() AcquisitionMetrics

// RegisterAcquisitionMetricsConstructor registers the Prometheus implementation.
// Called by pkg/metrics/prometheus/acquisition.go during package initialization.
func RegisterAcquisitionMetricsConstructor(constructor func() AcquisitionMetrics) {
	newPrometheusAcquisitionMetrics = constructor
}

// RecordSessionEnd records a session outcome, tolerating a nil metrics sink.
func RecordSessionEnd(m AcquisitionMetrics, runMode, finalState string, duration time.Duration) {
	if m != nil {
		m.RecordSessionEnd(runMode, finalState, duration)
	}
}

// SetProgress updates session progress, tolerating a nil metrics sink.
func SetProgress(m AcquisitionMetrics, overallPercent float64) {
	if m != nil {
		m.SetProgress(overallPercent)
	}
}
