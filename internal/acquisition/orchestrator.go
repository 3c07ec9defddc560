package acquisition

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/specs-group/kreiosd/internal/analyzer"
	"github.com/specs-group/kreiosd/internal/logger"
	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
	"github.com/specs-group/kreiosd/pkg/metrics"
)

// DefaultPollInterval is the default status-poll cadence within a session.
const DefaultPollInterval = 100 * time.Millisecond

// Orchestrator is the Acquisition Orchestrator (C7). One dedicated worker
// goroutine runs Run, waiting on a start signal and executing one session
// to termination before waiting again. Pause and resume requests, and
// parameter reads, are issued from the caller's goroutine while a session
// is active; the broker serializes them with the worker's exchanges.
type Orchestrator struct {
	broker  *prodigy.Broker
	mirror  *analyzer.Mirror
	definer *analyzer.Definer
	reader  *analyzer.Reader

	sink    Sink
	scalars ScalarsProvider

	pollInterval time.Duration

	acquiring     atomic.Bool
	stopRequested atomic.Bool
	pauseFlag     atomic.Bool

	startSignal chan struct{}

	metrics metrics.AcquisitionMetrics
	history HistorySink

	// sessionMessage and sessionTerminalState carry the last failure/abort
	// reason and the state it was published under from fail()/abort() (or
	// an inline terminal branch in runIteration) through to the
	// end-of-session history record. Only the worker goroutine touches
	// them, and only while a session is active.
	sessionMessage       string
	sessionTerminalState State
}

// NewOrchestrator wires an Orchestrator to its Prodigy-facing collaborators
// and its published-state sink/provider.
func NewOrchestrator(broker *prodigy.Broker, mirror *analyzer.Mirror, definer *analyzer.Definer, reader *analyzer.Reader, sink Sink, scalars ScalarsProvider) *Orchestrator {
	return &Orchestrator{
		broker:       broker,
		mirror:       mirror,
		definer:      definer,
		reader:       reader,
		sink:         sink,
		scalars:      scalars,
		pollInterval: DefaultPollInterval,
		startSignal:  make(chan struct{}, 1),
	}
}

// SetPollInterval overrides the status-poll cadence (primarily for tests).
func (o *Orchestrator) SetPollInterval(d time.Duration) {
	if d > 0 {
		o.pollInterval = d
	}
}

// SetMetrics installs a metrics sink. Passing nil disables metrics
// collection.
func (o *Orchestrator) SetMetrics(m metrics.AcquisitionMetrics) {
	o.metrics = m
}

// SetHistorySink installs a HistorySink. Passing nil disables session
// history recording.
func (o *Orchestrator) SetHistorySink(h HistorySink) {
	o.history = h
}

// Busy reports whether a session is currently active.
func (o *Orchestrator) Busy() bool { return o.acquiring.Load() }

// Run is the acquisition worker's main loop. It blocks until ctx is
// cancelled, running at most one session at a time.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.startSignal:
			o.runSession(ctx)
		}
	}
}

// StartAcquisition requests a new session using the current scalars and
// run mode. No-op if a session is already active.
func (o *Orchestrator) StartAcquisition() {
	if o.acquiring.Load() {
		return
	}
	select {
	case o.startSignal <- struct{}{}:
	default:
	}
}

// StopAcquisition requests abort of the active session. Idempotent.
func (o *Orchestrator) StopAcquisition() {
	o.stopRequested.Store(true)
}

// PauseAcquisition requests a Prodigy-side pause. Idempotent; best-effort,
// per the spec's open question on 3-D pause support. If the server
// rejects it, the caller's state remains Running.
func (o *Orchestrator) PauseAcquisition(ctx context.Context) error {
	if !o.acquiring.Load() {
		return nil
	}
	_, err := o.broker.Exchange(ctx, "Pause")
	if err != nil {
		return err
	}
	o.pauseFlag.Store(true)
	o.sink.PublishState(StatePaused)
	return nil
}

// ResumeAcquisition requests a Prodigy-side resume. Idempotent.
func (o *Orchestrator) ResumeAcquisition(ctx context.Context) error {
	if !o.acquiring.Load() {
		return nil
	}
	_, err := o.broker.Exchange(ctx, "Resume")
	if err != nil {
		return err
	}
	o.pauseFlag.Store(false)
	o.sink.PublishState(StateRunning)
	return nil
}

func (o *Orchestrator) runSession(ctx context.Context) {
	o.acquiring.Store(true)
	o.stopRequested.Store(false)
	o.pauseFlag.Store(false)
	defer o.acquiring.Store(false)

	o.sink.PublishState(StateInitializing)
	cfg := o.scalars.CurrentScalars()
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}

	sessionID := uuid.New()
	start := time.Now()
	runMode := string(cfg.RunMode)
	o.sessionMessage = ""
	o.sessionTerminalState = StateError

	var (
		shape               analyzer.Shape
		completedIterations int64
	)
	finalState := StateError
	if o.metrics != nil {
		o.metrics.RecordSessionStart(runMode)
	}
	defer func() {
		if o.metrics != nil {
			o.metrics.RecordSessionEnd(runMode, finalState.String(), time.Since(start))
		}
		if o.history != nil {
			o.history.RecordSession(SessionOutcome{
				ID:                  sessionID,
				RunMode:             cfg.RunMode,
				IterationsRequested: cfg.Iterations,
				IterationsCompleted: completedIterations,
				Shape:               shape,
				StartedAt:           start,
				EndedAt:             time.Now(),
				FinalState:          finalState,
				Message:             o.sessionMessage,
			})
		}
	}()

	if _, err := o.broker.Exchange(ctx, "ClearSpectrum"); err != nil {
		o.fail(err, "ClearSpectrum failed")
		return
	}

	var err error
	shape, err = o.definer.DefineAndValidate(ctx, cfg.RunMode, cfg.Inputs)
	if err != nil {
		o.fail(err, "defineAndValidate failed")
		return
	}
	o.reconcileNonEnergyChannels(ctx, shape)
	o.sink.PublishShape(shape)

	acc := NewAccumulator(shape)
	o.sink.PublishState(StateReady)

	for iter := int64(0); iter < cfg.Iterations; iter++ {
		if o.stopRequested.Load() {
			finalState = StateAborted
			completedIterations = iter
			o.abort(acc, "user stop before iteration start")
			return
		}

		if !o.runIteration(ctx, cfg, shape, acc, iter) {
			finalState = o.terminalState()
			completedIterations = iter
			return
		}
		completedIterations = iter + 1
		if o.metrics != nil {
			o.metrics.RecordIteration(runMode)
		}
	}

	finalState = StateFinished
	o.sink.PublishState(StateFinished)
	o.sink.PublishProgress(Progress{
		Iteration:           cfg.Iterations,
		Iterations:          cfg.Iterations,
		SamplesPerIteration: shape.S,
		IterationPercent:    100,
		OverallPercent:      100,
		StatusText:          "finished",
	})
	o.sink.PublishFrame(acc.Frame())
	o.sink.PublishState(StateIdle)
}

// terminalState reports the session-ending state for metrics and history
// labeling after runIteration returns false without the session having
// reached StateFinished. It mirrors whichever PublishState call
// runIteration, fail() or abort() already made.
func (o *Orchestrator) terminalState() State {
	return o.sessionTerminalState
}

// runIteration executes algorithm step 5 for one iteration. It returns
// false if the session ended (error or user abort), in which case it has
// already published the terminal state.
func (o *Orchestrator) runIteration(ctx context.Context, cfg SessionConfig, shape analyzer.Shape, acc *Accumulator, iter int64) bool {
	if _, err := o.broker.Exchange(ctx, "ClearSpectrum"); err != nil {
		o.fail(err, "ClearSpectrum failed")
		return false
	}
	if _, err := o.broker.Exchange(ctx, "Start", prodigy.Flag("SafeAfter", cfg.SafeAfter)); err != nil {
		o.fail(err, "Start failed")
		return false
	}

	effectiveSpace := acc.EffectiveAddressSpace()
	lastConsumed := int64(0)
	firstData := false

	for {
		if o.stopRequested.Load() {
			o.abort(acc, "user stop")
			return false
		}

		time.Sleep(o.pollInterval)

		status, err := o.broker.Exchange(ctx, "GetAcquisitionStatus")
		if err != nil {
			o.fail(err, "GetAcquisitionStatus failed")
			return false
		}
		controllerState, _ := status.Value("ControllerState")
		acquired, err := status.Int64("NumberOfAcquiredPoints")
		if err != nil {
			o.fail(err, "GetAcquisitionStatus reply missing NumberOfAcquiredPoints")
			return false
		}

		if acquired > lastConsumed {
			if !firstData {
				firstData = true
				o.sink.PublishState(StateRunning)
			}

			targetEnd := acquired
			if maxStep := o.reader.MaxSamplesPerRead(shape.V); lastConsumed+maxStep < targetEnd {
				targetEnd = lastConsumed + maxStep
			}
			if targetEnd > effectiveSpace {
				targetEnd = effectiveSpace
			}

			values, err := o.reader.ReadRange(ctx, lastConsumed, targetEnd-1)
			if err != nil {
				o.fail(err, "readRange failed")
				return false
			}

			expectedSamples := targetEnd - lastConsumed
			applied := acc.ApplyChunk(int(iter), lastConsumed, values)
			if applied < expectedSamples {
				_, _ = o.broker.Exchange(ctx, "Abort")
				o.sink.PublishState(StateError)
				o.sink.PublishMessage("receive short")
				o.sessionMessage = "receive short"
				o.sessionTerminalState = StateError
				return false
			}

			lastConsumed = targetEnd
			if o.metrics != nil {
				o.metrics.RecordSamplesConsumed(applied)
			}
			o.sink.PublishArrays(acc.Spectrum(), acc.Image(), acc.Volume())
			o.publishProgress(cfg, shape, iter, lastConsumed, effectiveSpace)
		}

		if controllerState == "Aborted" {
			o.sink.PublishState(StateAborted)
			o.sessionMessage = "device reported ControllerState=Aborted"
			o.sessionTerminalState = StateAborted
			return false
		}
		if controllerState == "Error" {
			o.fail(fmt.Errorf("server reported ControllerState=Error"), "acquisition failed on device")
			return false
		}
		if controllerState == "Finished" && lastConsumed >= effectiveSpace {
			return true
		}
	}
}

func (o *Orchestrator) publishProgress(cfg SessionConfig, shape analyzer.Shape, iter, lastConsumed, effectiveSpace int64) {
	iterPct := 100 * float64(lastConsumed) / float64(effectiveSpace)
	overallPct := 100 * float64(iter*effectiveSpace+lastConsumed) / float64(cfg.Iterations*effectiveSpace)
	remaining := float64(effectiveSpace-lastConsumed) * cfg.Inputs.DwellTime
	o.sink.PublishProgress(Progress{
		Iteration:           iter,
		Iterations:          cfg.Iterations,
		CurrentSample:       lastConsumed,
		SamplesPerIteration: shape.S,
		IterationPercent:    iterPct,
		OverallPercent:      overallPct,
		RemainingSeconds:    remaining,
		StatusText:          "acquiring",
	})
	if o.metrics != nil {
		o.metrics.SetProgress(overallPct)
	}
}

func (o *Orchestrator) abort(acc *Accumulator, reason string) {
	ctx := context.Background()
	_, _ = o.broker.Exchange(ctx, "Abort")
	o.sink.PublishState(StateAborted)
	o.sink.PublishMessage(reason)
	o.sessionMessage = reason
	o.sessionTerminalState = StateAborted
	if acc != nil {
		o.sink.PublishArrays(acc.Spectrum(), acc.Image(), acc.Volume())
	}
	if o.metrics != nil {
		o.metrics.RecordAbort(reason)
	}
}

func (o *Orchestrator) fail(err error, context string) {
	msg := context + ": " + err.Error()
	logger.Warn("acquisition session failed", "context", context, "error", err)
	o.sink.PublishState(StateError)
	o.sink.PublishMessage(msg)
	o.sessionMessage = msg
	o.sessionTerminalState = StateError
}

// reconcileNonEnergyChannels re-reads NumNonEnergyChannels via the
// parameter mirror and logs a warning if it disagrees with the validated
// V; the validated value is always trusted.
func (o *Orchestrator) reconcileNonEnergyChannels(ctx context.Context, shape analyzer.Shape) {
	reported, err := o.mirror.GetFloat(ctx, "NumNonEnergyChannels")
	if err != nil {
		return
	}
	if int64(reported) != shape.V {
		logger.Warn("NumNonEnergyChannels disagrees with validated V",
			"reported", reported, "validated", shape.V)
	}
}
