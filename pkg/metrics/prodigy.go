package metrics

import "time"

// ProdigyMetrics provides observability for the transport, codec, and
// broker layers (C1-C3).
//
// Implementations can collect metrics about exchange latency, connection
// lifecycle, and transfer volume. This interface is optional - pass nil
// to disable metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	broker := prodigy.NewBroker(transport)
//	broker.SetMetrics(metrics.NewProdigyMetrics())
//
//	// Without metrics (zero overhead)
//	broker := prodigy.NewBroker(transport)
type ProdigyMetrics interface {
	// RecordExchange records a completed request/reply exchange with its
	// command name, duration, and outcome.
	//
	// Parameters:
	//   - command: Prodigy command name (e.g., "GetAnalyzerParameterValue")
	//   - duration: Time taken for the exchange to complete
	//   - errorKind: prodigy.Kind taxonomy value if the exchange failed, empty if successful
	RecordExchange(command string, duration time.Duration, errorKind string)

	// RecordExchangeStart increments the in-flight exchange counter.
	RecordExchangeStart(command string)

	// RecordExchangeEnd decrements the in-flight exchange counter.
	RecordExchangeEnd(command string)

	// SetConnected updates the current connection status.
	SetConnected(connected bool)

	// RecordReconnectAttempt records an attempt to reconnect to the analyzer.
	RecordReconnectAttempt(success bool)

	// RecordBytesTransferred records bytes sent or received on the wire.
	//
	// Parameters:
	//   - direction: "sent" or "received"
	//   - bytes: Number of bytes transferred
	RecordBytesTransferred(direction string, bytes int)
}

// NewProdigyMetrics creates a new Prometheus-backed ProdigyMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewProdigyMetrics() ProdigyMetrics {
	if !IsEnabled() {
		return nil
	}

	return newPrometheusProdigyMetrics()
}

// newPrometheusProdigyMetrics is implemented in pkg/metrics/prometheus/prodigy.go.
// This indirection avoids an import cycle while keeping the API clean.
var newPrometheusProdigyMetrics func() ProdigyMetrics

// RegisterProdigyMetricsConstructor registers the Prometheus implementation.
// Called by pkg/metrics/prometheus/prodigy.go during package initialization.
func RegisterProdigyMetricsConstructor(constructor func() ProdigyMetrics) {
	newPrometheusProdigyMetrics = constructor
}

// ObserveExchange records a completed exchange, tolerating a nil metrics sink.
func ObserveExchange(m ProdigyMetrics, command string, duration time.Duration, errorKind string) {
	if m != nil {
		m.RecordExchange(command, duration, errorKind)
	}
}

// RecordBytesTransferred records wire bytes, tolerating a nil metrics sink.
func RecordBytesTransferred(m ProdigyMetrics, direction string, bytes int) {
	if m != nil {
		m.RecordBytesTransferred(direction, bytes)
	}
}
