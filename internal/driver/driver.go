package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/analyzer"
	"github.com/specs-group/kreiosd/internal/logger"
	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
	"github.com/specs-group/kreiosd/pkg/metrics"
)

// Driver is the single entry point an areaDetector-shaped IOC binds
// against. It owns the one permitted TCP connection (C1-C3), the
// parameter mirror (C4), the spectrum definer and data reader (C5/C6),
// the acquisition orchestrator (C7) and the published-state store (C8).
type Driver struct {
	transport *prodigy.Transport
	broker    *prodigy.Broker
	mirror    *analyzer.Mirror
	definer   *analyzer.Definer
	reader    *analyzer.Reader

	orchestrator *acquisition.Orchestrator
	store        *Store
}

// Config carries the Prodigy connection parameters and acquisition
// tuning knobs a Driver is constructed with.
type Config struct {
	Host             string
	Port             int
	Timeout          time.Duration
	PollInterval     time.Duration
	MaxValuesPerRead int
}

// New wires C1-C8 together but does not connect.
func New(cfg Config) *Driver {
	transport := prodigy.NewTransport(cfg.Host, cfg.Port, cfg.Timeout)
	broker := prodigy.NewBroker(transport)
	store := NewStore()

	mirror := analyzer.NewMirror(broker, func() bool { return store.Snapshot().State.Busy() })
	definer := analyzer.NewDefiner(broker)
	reader := analyzer.NewReader(broker)
	if cfg.MaxValuesPerRead > 0 {
		reader.SetMaxValuesPerRead(cfg.MaxValuesPerRead)
	}

	orchestrator := acquisition.NewOrchestrator(broker, mirror, definer, reader, store, store)
	if cfg.PollInterval > 0 {
		orchestrator.SetPollInterval(cfg.PollInterval)
	}

	broker.SetMetrics(metrics.NewProdigyMetrics())
	orchestrator.SetMetrics(metrics.NewAcquisitionMetrics())

	return &Driver{
		transport:    transport,
		broker:       broker,
		mirror:       mirror,
		definer:      definer,
		reader:       reader,
		orchestrator: orchestrator,
		store:        store,
	}
}

// Run starts the dedicated acquisition worker goroutine; callers launch
// this once at daemon start and cancel ctx at shutdown.
func (d *Driver) Run(ctx context.Context) {
	d.orchestrator.Run(ctx)
}

// Connect establishes the single TCP connection, enumerates analyzer
// parameters, and reads the Lens Mode / Scan Range enum value lists.
func (d *Driver) Connect(ctx context.Context) error {
	if err := d.broker.Reconnect(ctx); err != nil {
		d.store.SetConnectionInfo(ConnectionInfo{Connected: false})
		return err
	}

	if err := d.mirror.Refresh(ctx); err != nil {
		return fmt.Errorf("driver: refresh analyzer parameters: %w", err)
	}

	lensModes, scanRanges := d.readEnumValues(ctx)
	d.store.SetEnumReadbacks(lensModes, scanRanges)

	d.store.SetConnectionInfo(ConnectionInfo{
		Connected:     true,
		ServerName:    "SPECS Prodigy",
		ProtocolMajor: 1,
		ProtocolMinor: 22,
	})
	return nil
}

func (d *Driver) readEnumValues(ctx context.Context) (lensModes, scanRanges []string) {
	for _, pair := range []struct {
		name string
		out  *[]string
	}{
		{"LensMode", &lensModes},
		{"ScanRange", &scanRanges},
	} {
		reply, err := d.broker.Exchange(ctx, "GetSpectrumParameterInfo", prodigy.Str("Name", pair.name))
		if err != nil {
			logger.Warn("failed to read spectrum parameter enum values", "name", pair.name, "error", err)
			continue
		}
		raw, ok := reply.Value("Values")
		if !ok {
			continue
		}
		*pair.out = splitCommaList(raw)
	}
	return lensModes, scanRanges
}

func splitCommaList(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if tok := v[start:i]; tok != "" {
				out = append(out, tok)
			}
			start = i + 1
		}
	}
	return out
}

// Disconnect closes the TCP connection.
func (d *Driver) Disconnect() error {
	d.store.SetConnectionInfo(ConnectionInfo{Connected: false})
	return d.transport.Close()
}

// --- C7 control surface ---

func (d *Driver) StartAcquisition() { d.orchestrator.StartAcquisition() }
func (d *Driver) StopAcquisition()  { d.orchestrator.StopAcquisition() }

func (d *Driver) PauseAcquisition(ctx context.Context) error {
	return d.orchestrator.PauseAcquisition(ctx)
}

func (d *Driver) ResumeAcquisition(ctx context.Context) error {
	return d.orchestrator.ResumeAcquisition(ctx)
}

func (d *Driver) Busy() bool { return d.orchestrator.Busy() }

// --- C8 read surface ---

// Status returns a snapshot of the published-state store.
func (d *Driver) Status() Snapshot { return d.store.Snapshot() }

// --- C8 write surface ---

// SetScalar writes a named numeric spectrum-input or control scalar.
// Deferred to the next session; refused while an acquisition is active.
func (d *Driver) SetScalar(name string, value float64) error {
	if d.store.Snapshot().State.Busy() {
		return &prodigy.Error{Kind: prodigy.KindAcquisitionBusy, Message: "scalar write rejected during acquisition"}
	}
	return d.store.SetScalar(name, value)
}

func (d *Driver) SetRunMode(mode analyzer.RunMode) error {
	if d.store.Snapshot().State.Busy() {
		return &prodigy.Error{Kind: prodigy.KindAcquisitionBusy, Message: "run mode write rejected during acquisition"}
	}
	return d.store.SetRunMode(mode)
}

func (d *Driver) SetLensMode(v string)      { d.store.SetLensMode(v) }
func (d *Driver) SetScanRange(v string)     { d.store.SetScanRange(v) }
func (d *Driver) SetOperatingMode(v string) { d.store.SetOperatingMode(v) }
func (d *Driver) SetSafeState(v bool)       { d.store.SetSafeState(v) }

// --- C4 analyzer parameter surface (arbitrary named device parameters,
// distinct from the fixed spectrum-input scalars above) ---

func (d *Driver) ParamNames() []string { return d.mirror.Names() }

func (d *Driver) ParamInfo(name string) (*analyzer.Parameter, bool) { return d.mirror.Lookup(name) }

func (d *Driver) GetParamFloat(ctx context.Context, name string) (float64, error) {
	return d.mirror.GetFloat(ctx, name)
}

func (d *Driver) GetParamString(ctx context.Context, name string) (string, error) {
	return d.mirror.GetString(ctx, name)
}

func (d *Driver) SetParamFloat(ctx context.Context, name string, value float64) error {
	return d.mirror.SetFloat(ctx, name, value)
}

func (d *Driver) SetParamString(ctx context.Context, name string, value string) error {
	return d.mirror.SetString(ctx, name, value)
}
