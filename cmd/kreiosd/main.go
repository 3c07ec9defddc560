package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/internal/history"
	"github.com/specs-group/kreiosd/internal/logger"
	"github.com/specs-group/kreiosd/internal/telemetry"
	"github.com/specs-group/kreiosd/pkg/api"
	"github.com/specs-group/kreiosd/pkg/config"
	"github.com/specs-group/kreiosd/pkg/metrics"

	// Registers the Prometheus-backed metrics constructors via init() and
	// supplies the badger history store's metrics sink.
	prometheusmetrics "github.com/specs-group/kreiosd/pkg/metrics/prometheus"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `kreiosd - EPICS areaDetector driver core for the SPECS KREIOS-150

Usage:
  kreiosd <command> [flags]

Commands:
  start    Connect to the analyzer and start the REST control plane
  init     Write a starter configuration file
  version  Show version information

Flags:
  --config string    Path to config file (default: $XDG_CONFIG_HOME/kreiosd/config.yaml)
  --force            Force overwrite existing config file (init command only)

Examples:
  kreiosd init
  kreiosd start
  kreiosd start --config /etc/kreiosd/config.yaml

Environment Variables:
  All configuration options can be overridden using environment variables.
  Format: KREIOSD_<SECTION>_<KEY>, e.g. KREIOSD_PRODIGY_HOST, KREIOSD_API_SECRET.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit()
	case "start":
		runStart()
	case "help", "--help", "-h":
		fmt.Print(usage)
		os.Exit(0)
	case "version", "--version", "-v":
		fmt.Printf("kreiosd %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runInit() {
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	configFile := initFlags.String("config", "", "Path to config file")
	force := initFlags.Bool("force", false, "Force overwrite existing config file")
	if err := initFlags.Parse(os.Args[2:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	var (
		configPath string
		err        error
	)
	if *configFile != "" {
		configPath = *configFile
		err = config.InitConfigToPath(*configFile, *force)
	} else {
		configPath, err = config.InitConfig(*force)
	}
	if err != nil {
		log.Fatalf("failed to initialize config: %v", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("Edit it to match your analyzer, then start the daemon:")
	fmt.Printf("  kreiosd start --config %s\n", configPath)
}

func runStart() {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	configFile := startFlags.String("config", "", "Path to config file")
	if err := startFlags.Parse(os.Args[2:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := config.MustLoad(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "kreiosd",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "kreiosd",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		log.Fatalf("failed to initialize profiling: %v", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("kreiosd starting", "version", version, "commit", commit)
	logger.Info("configuration loaded", "source", getConfigSource(*configFile))
	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	}

	d := driver.New(driver.Config{
		Host:             cfg.Prodigy.Host,
		Port:             cfg.Prodigy.Port,
		Timeout:          cfg.Prodigy.Timeout,
		PollInterval:     cfg.Acquisition.PollInterval,
		MaxValuesPerRead: cfg.Acquisition.MaxValuesPerRead,
	})

	if err := d.Connect(ctx); err != nil {
		log.Fatalf("failed to connect to analyzer at %s:%d: %v", cfg.Prodigy.Host, cfg.Prodigy.Port, err)
	}
	logger.Info("connected to analyzer", "host", cfg.Prodigy.Host, "port", cfg.Prodigy.Port)
	defer func() {
		if err := d.Disconnect(); err != nil {
			logger.Error("error disconnecting from analyzer", "error", err)
		}
	}()

	var histStore *history.Store
	if cfg.History.Path != "" {
		histStore, err = history.Open(cfg.History.Path)
		if err != nil {
			log.Fatalf("failed to open history store: %v", err)
		}
		histStore.SetMetrics(prometheusmetrics.NewBadgerMetrics())
		defer func() {
			if err := histStore.Close(); err != nil {
				logger.Error("error closing history store", "error", err)
			}
		}()
		d.SetHistorySink(histStore)
		logger.Info("history store opened", "path", cfg.History.Path)
	}

	go d.Run(ctx)

	serverDone := make(chan error, 1)
	if cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, d, histStore)
		go func() {
			serverDone <- apiServer.Start(ctx)
		}()
		logger.Info("API server enabled", "port", cfg.API.Port, "auth_enabled", cfg.API.AuthEnabled)
	} else {
		logger.Info("API server disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("kreiosd running")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, stopping")
		cancel()
		if cfg.API.Enabled {
			if err := <-serverDone; err != nil {
				logger.Error("API server shutdown error", "error", err)
			}
		}
	case err := <-serverDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			logger.Error("API server error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("kreiosd stopped")
}

func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
