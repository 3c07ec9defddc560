package prometheus

import (
	"time"

	"github.com/specs-group/kreiosd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// acquisitionMetrics is the Prometheus implementation of metrics.AcquisitionMetrics.
type acquisitionMetrics struct {
	sessionsTotal    *prometheus.CounterVec
	sessionDuration  *prometheus.HistogramVec
	activeSession    prometheus.Gauge
	iterationsTotal  *prometheus.CounterVec
	progressPercent  prometheus.Gauge
	samplesConsumed  prometheus.Counter
	abortsTotal      *prometheus.CounterVec
}

// NewAcquisitionMetrics creates a new Prometheus-backed AcquisitionMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewAcquisitionMetrics() metrics.AcquisitionMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &acquisitionMetrics{
		sessionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_acquisition_sessions_total",
				Help: "Total number of acquisition sessions by run mode and final state",
			},
			[]string{"run_mode", "final_state"},
		),
		sessionDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kreiosd_acquisition_session_duration_seconds",
				Help: "Duration of acquisition sessions in seconds",
				Buckets: []float64{
					1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600,
				},
			},
			[]string{"run_mode"},
		),
		activeSession: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "kreiosd_acquisition_active",
				Help: "Whether an acquisition session is currently running (1) or not (0)",
			},
		),
		iterationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_acquisition_iterations_total",
				Help: "Total number of completed iterations by run mode",
			},
			[]string{"run_mode"},
		),
		progressPercent: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "kreiosd_acquisition_progress_percent",
				Help: "Overall completion percentage of the active session",
			},
		),
		samplesConsumed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "kreiosd_acquisition_samples_consumed_total",
				Help: "Total number of samples accumulated from GetAcquisitionData reads",
			},
		),
		abortsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_acquisition_aborts_total",
				Help: "Total number of aborted sessions by reason",
			},
			[]string{"reason"},
		),
	}
}

func (m *acquisitionMetrics) RecordSessionStart(runMode string) {
	if m == nil {
		return
	}
	m.activeSession.Set(1)
}

func (m *acquisitionMetrics) RecordSessionEnd(runMode, finalState string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(runMode, finalState).Inc()
	m.sessionDuration.WithLabelValues(runMode).Observe(duration.Seconds())
	m.activeSession.Set(0)
}

func (m *acquisitionMetrics) SetActiveSession(active bool) {
	if m == nil {
		return
	}
	if active {
		m.activeSession.Set(1)
	} else {
		m.activeSession.Set(0)
	}
}

func (m *acquisitionMetrics) RecordIteration(runMode string) {
	if m == nil {
		return
	}
	m.iterationsTotal.WithLabelValues(runMode).Inc()
}

func (m *acquisitionMetrics) SetProgress(overallPercent float64) {
	if m == nil {
		return
	}
	m.progressPercent.Set(overallPercent)
}

func (m *acquisitionMetrics) RecordSamplesConsumed(count int64) {
	if m == nil {
		return
	}
	m.samplesConsumed.Add(float64(count))
}

func (m *acquisitionMetrics) RecordAbort(reason string) {
	if m == nil {
		return
	}
	m.abortsTotal.WithLabelValues(reason).Inc()
}

func init() {
	metrics.RegisterAcquisitionMetricsConstructor(NewAcquisitionMetrics)
}
