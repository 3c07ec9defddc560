package config

import (
	"strings"
	"time"

	"github.com/specs-group/kreiosd/internal/bytesize"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Called after loading configuration from file and environment.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit
// values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyProdigyDefaults(&cfg.Prodigy)
	applyAcquisitionDefaults(&cfg.Acquisition)
	applyMetricsDefaults(&cfg.Metrics)
	applyAPIDefaults(&cfg.API)
	applyHistoryDefaults(&cfg.History)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry and Pyroscope defaults.
// Enabled defaults to false (opt-in); the zero value already does that.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyProdigyDefaults sets the analyzer connection defaults.
func applyProdigyDefaults(cfg *ProdigyConfig) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 7010 // SpecsLab Prodigy Remote-In default port
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
}

// applyAcquisitionDefaults sets C7 orchestrator tuning defaults.
func applyAcquisitionDefaults(cfg *AcquisitionConfig) {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.MaxValuesPerRead == 0 {
		cfg.MaxValuesPerRead = 1000
	}
}

// applyMetricsDefaults sets metrics defaults. Port only takes a default
// when metrics are actually enabled.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyAPIDefaults sets the REST control-plane server defaults. The API
// is always enabled, whatever the file says, the way the teacher's
// control-plane API is always on.
func applyAPIDefaults(cfg *APIConfig) {
	cfg.Enabled = true

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
}

// applyHistoryDefaults sets the acquisition-history store defaults.
func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.Path == "" {
		cfg.Path = "/var/lib/kreiosd/history"
	}
	if cfg.Size == 0 {
		cfg.Size = 256 * bytesize.MiB
	}
}

// GetDefaultConfig returns a Config struct with all default values
// applied. Useful for generating sample configuration files and tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
