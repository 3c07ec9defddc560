package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_Prodigy(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Prodigy.Host != "localhost" {
		t.Errorf("Expected default prodigy host 'localhost', got %q", cfg.Prodigy.Host)
	}
	if cfg.Prodigy.Port != 7010 {
		t.Errorf("Expected default prodigy port 7010, got %d", cfg.Prodigy.Port)
	}
	if cfg.Prodigy.Timeout != 10*time.Second {
		t.Errorf("Expected default prodigy timeout 10s, got %v", cfg.Prodigy.Timeout)
	}
}

func TestApplyDefaults_Acquisition(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Acquisition.PollInterval != 100*time.Millisecond {
		t.Errorf("Expected default poll interval 100ms, got %v", cfg.Acquisition.PollInterval)
	}
	if cfg.Acquisition.MaxValuesPerRead != 1000 {
		t.Errorf("Expected default max values per read 1000, got %d", cfg.Acquisition.MaxValuesPerRead)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if !cfg.API.Enabled {
		t.Error("Expected API to be enabled by default")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %v", cfg.API.WriteTimeout)
	}
	if cfg.API.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.API.IdleTimeout)
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
	if cfg.Metrics.Port != 0 {
		t.Errorf("Expected no default metrics port while disabled, got %d", cfg.Metrics.Port)
	}

	cfg2 := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg2)
	if cfg2.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090 once enabled, got %d", cfg2.Metrics.Port)
	}
}

func TestApplyDefaults_History(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.History.Path == "" {
		t.Error("Expected a default history path")
	}
	if cfg.History.Size == 0 {
		t.Error("Expected a default history size")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/kreiosd.log",
		},
		ShutdownTimeout: 30 * time.Second,
		Prodigy: ProdigyConfig{
			Host: "analyzer.lab.local",
			Port: 7011,
		},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/kreiosd.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected explicit timeout 30s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Prodigy.Host != "analyzer.lab.local" {
		t.Errorf("Expected explicit prodigy host to be preserved, got %q", cfg.Prodigy.Host)
	}
	if cfg.Prodigy.Port != 7011 {
		t.Errorf("Expected explicit prodigy port to be preserved, got %d", cfg.Prodigy.Port)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.API.Port == 0 {
		t.Error("Default config missing API port")
	}
	if cfg.Prodigy.Host == "" {
		t.Error("Default config missing prodigy host")
	}
	if cfg.History.Path == "" {
		t.Error("Default config missing history path")
	}
}
