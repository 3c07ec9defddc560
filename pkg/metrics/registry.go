package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry creates and installs the process-wide Prometheus registry.
// Must be called before any metrics constructor in this package or
// pkg/metrics/prometheus, otherwise those constructors return nil and
// metrics collection is a no-op.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return enabled
}

// GetRegistry returns the process-wide registry, creating an unused one
// if InitRegistry was never called. Callers should check IsEnabled first.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return prometheus.NewRegistry()
	}
	return registry
}
