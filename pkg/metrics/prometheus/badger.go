package prometheus

import (
	"time"

	"github.com/specs-group/kreiosd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// badgerMetrics is the Prometheus implementation for the embedded
// session history store backing internal/history.
type badgerMetrics struct {
	opDuration  *prometheus.HistogramVec
	opErrors    *prometheus.CounterVec
	recordCount prometheus.Gauge
}

// NewBadgerMetrics creates a new Prometheus-backed history-store metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewBadgerMetrics() *badgerMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &badgerMetrics{
		opDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kreiosd_history_operation_duration_milliseconds",
				Help: "Duration of history store operations in milliseconds",
				Buckets: []float64{
					0.5, 1, 5, 10, 25, 50, 100, 500,
				},
			},
			[]string{"operation"}, // "append", "list"
		),
		opErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_history_operation_errors_total",
				Help: "Total number of history store operation failures by operation",
			},
			[]string{"operation"},
		),
		recordCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "kreiosd_history_records",
				Help: "Current number of session records in the history store",
			},
		),
	}
}

// RecordOperation records the outcome and duration of a history store operation.
func (m *badgerMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(operation).Observe(duration.Seconds() * 1000)
	if err != nil {
		m.opErrors.WithLabelValues(operation).Inc()
	}
}

// SetRecordCount sets the current number of stored session records.
func (m *badgerMetrics) SetRecordCount(count int) {
	if m == nil {
		return
	}
	m.recordCount.Set(float64(count))
}
