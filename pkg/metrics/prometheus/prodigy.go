package prometheus

import (
	"time"

	"github.com/specs-group/kreiosd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prodigyMetrics is the Prometheus implementation of metrics.ProdigyMetrics.
type prodigyMetrics struct {
	exchangeTotal     *prometheus.CounterVec
	exchangeDuration  *prometheus.HistogramVec
	exchangesInFlight *prometheus.GaugeVec
	connected         prometheus.Gauge
	reconnectTotal    *prometheus.CounterVec
	bytesTotal        *prometheus.CounterVec
}

// NewProdigyMetrics creates a new Prometheus-backed ProdigyMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewProdigyMetrics() metrics.ProdigyMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &prodigyMetrics{
		exchangeTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_prodigy_exchanges_total",
				Help: "Total number of Prodigy request/reply exchanges by command and outcome",
			},
			[]string{"command", "error_kind"}, // error_kind empty on success
		),
		exchangeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kreiosd_prodigy_exchange_duration_milliseconds",
				Help: "Duration of Prodigy request/reply exchanges in milliseconds",
				Buckets: []float64{
					1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000,
				},
			},
			[]string{"command"},
		),
		exchangesInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kreiosd_prodigy_exchanges_in_flight",
				Help: "Number of in-flight Prodigy exchanges by command",
			},
			[]string{"command"},
		),
		connected: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "kreiosd_prodigy_connected",
				Help: "Whether the TCP connection to the analyzer is currently established (1) or not (0)",
			},
		),
		reconnectTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_prodigy_reconnect_attempts_total",
				Help: "Total number of reconnect attempts by outcome",
			},
			[]string{"outcome"}, // "success", "failure"
		),
		bytesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kreiosd_prodigy_bytes_total",
				Help: "Total bytes transferred over the Prodigy connection by direction",
			},
			[]string{"direction"}, // "sent", "received"
		),
	}
}

func (m *prodigyMetrics) RecordExchange(command string, duration time.Duration, errorKind string) {
	if m == nil {
		return
	}
	m.exchangeTotal.WithLabelValues(command, errorKind).Inc()
	m.exchangeDuration.WithLabelValues(command).Observe(duration.Seconds() * 1000)
}

func (m *prodigyMetrics) RecordExchangeStart(command string) {
	if m == nil {
		return
	}
	m.exchangesInFlight.WithLabelValues(command).Inc()
}

func (m *prodigyMetrics) RecordExchangeEnd(command string) {
	if m == nil {
		return
	}
	m.exchangesInFlight.WithLabelValues(command).Dec()
}

func (m *prodigyMetrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

func (m *prodigyMetrics) RecordReconnectAttempt(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.reconnectTotal.WithLabelValues(outcome).Inc()
}

func (m *prodigyMetrics) RecordBytesTransferred(direction string, bytes int) {
	if m == nil {
		return
	}
	m.bytesTotal.WithLabelValues(direction).Add(float64(bytes))
}

func init() {
	metrics.RegisterProdigyMetricsConstructor(NewProdigyMetrics)
}
