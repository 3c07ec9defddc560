package acquisition

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specs-group/kreiosd/internal/analyzer"
	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
)

// commandServer runs a single-connection fake Prodigy server that delegates
// every request to respond, keyed by command token, and records every
// command it saw.
type commandServer struct {
	mu       sync.Mutex
	commands []string
}

func (s *commandServer) record(cmd string) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

func (s *commandServer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}

func startCommandServer(t *testing.T, respond func(cmd string) string) (*commandServer, string) {
	t.Helper()
	srv := &commandServer{}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return
			}
			id := strings.TrimPrefix(fields[0], "?")
			cmd := fields[1]
			srv.record(cmd)
			body := respond(cmd)
			if _, err := conn.Write([]byte("!" + id + " " + body + "\n")); err != nil {
				return
			}
		}
	}()

	return srv, ln.Addr().String()
}

func newTestOrchestrator(t *testing.T, addr string, sink Sink, scalars ScalarsProvider) *Orchestrator {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	transport := prodigy.NewTransport(host, port, time.Second)
	broker := prodigy.NewBroker(transport)
	if err := broker.Reconnect(context.Background()); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	mirror := analyzer.NewMirror(broker, func() bool { return false })
	definer := analyzer.NewDefiner(broker)
	reader := analyzer.NewReader(broker)
	o := NewOrchestrator(broker, mirror, definer, reader, sink, scalars)
	o.SetPollInterval(time.Millisecond)
	return o
}

type recordingSink struct {
	mu        sync.Mutex
	states    []State
	progress  []Progress
	arrays    [][]float64 // last spectrum snapshot per call
	messages  []string
	frame     *Frame
}

func (s *recordingSink) PublishState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, st)
}

func (s *recordingSink) PublishShape(analyzer.Shape) {}

func (s *recordingSink) PublishProgress(p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
}

func (s *recordingSink) PublishArrays(spectrum, image, volume []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrays = append(s.arrays, spectrum)
}

func (s *recordingSink) PublishFrame(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := f
	s.frame = &cp
}

func (s *recordingSink) PublishMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *recordingSink) lastStates() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, len(s.states))
	copy(out, s.states)
	return out
}

func (s *recordingSink) lastSpectrum() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.arrays) == 0 {
		return nil
	}
	return s.arrays[len(s.arrays)-1]
}

type fixedScalars struct{ cfg SessionConfig }

func (f fixedScalars) CurrentScalars() SessionConfig { return f.cfg }

func TestOrchestrator_HappyPath1D(t *testing.T) {
	t.Parallel()

	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	statusCalls := 0
	srv, addr := startCommandServer(t, func(cmd string) string {
		switch cmd {
		case "ClearSpectrum", "Start":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAcquisitionStatus":
			statusCalls++
			switch statusCalls {
			case 1:
				return "OK: ControllerState:Running NumberOfAcquiredPoints:0"
			case 2:
				return "OK: ControllerState:Running NumberOfAcquiredPoints:21"
			default:
				return "OK: ControllerState:Finished NumberOfAcquiredPoints:21"
			}
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return `Error: 1 "unhandled command"`
		}
	})

	sink := &recordingSink{}
	scalars := fixedScalars{cfg: SessionConfig{
		RunMode: analyzer.ModeFAT,
		Inputs: analyzer.SpectrumInputs{
			StartEnergy: 400, EndEnergy: 410, StepWidth: 0.5,
			PassEnergy: 20, DwellTime: 0.1, LensMode: "Angular", ScanRange: "Narrow",
		},
		Iterations: 1,
	}}

	o := newTestOrchestrator(t, addr, sink, scalars)
	o.runSession(context.Background())

	states := sink.lastStates()
	if len(states) == 0 || states[len(states)-1] != StateIdle {
		t.Fatalf("final state = %v, want last=Idle: %v", states, states)
	}
	foundFinished := false
	for _, s := range states {
		if s == StateFinished {
			foundFinished = true
		}
	}
	if !foundFinished {
		t.Errorf("expected Finished state to be published, got %v", states)
	}

	spectrum := sink.lastSpectrum()
	if len(spectrum) != 21 {
		t.Fatalf("len(spectrum) = %d, want 21", len(spectrum))
	}
	for i, v := range spectrum {
		if v != float64(i+1) {
			t.Errorf("spectrum[%d] = %v, want %v", i, v, float64(i+1))
		}
	}

	if sink.frame == nil || sink.frame.NDims != 1 || sink.frame.Dims[0] != 21 {
		t.Errorf("unexpected frame: %+v", sink.frame)
	}

	cmds := srv.seen()
	clearCount := 0
	for _, c := range cmds {
		if c == "ClearSpectrum" {
			clearCount++
		}
	}
	if clearCount != 2 {
		t.Errorf("ClearSpectrum issued %d times, want 2 (session + iteration)", clearCount)
	}
}

func TestOrchestrator_UserAbortMidAcquisition(t *testing.T) {
	t.Parallel()

	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	srv, addr := startCommandServer(t, func(cmd string) string {
		switch cmd {
		case "ClearSpectrum", "Start", "Abort":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAcquisitionStatus":
			return "OK: ControllerState:Running NumberOfAcquiredPoints:10"
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return `Error: 1 "unhandled command"`
		}
	})

	var o *Orchestrator
	sink := &recordingSink{}
	stoppingSink := &stopOnFirstArraySink{recordingSink: sink}
	scalars := fixedScalars{cfg: SessionConfig{
		RunMode: analyzer.ModeFAT,
		Inputs: analyzer.SpectrumInputs{
			StartEnergy: 400, EndEnergy: 410, StepWidth: 0.5,
			PassEnergy: 20, DwellTime: 0.1,
		},
		Iterations: 1,
	}}

	o = newTestOrchestrator(t, addr, stoppingSink, scalars)
	stoppingSink.orchestrator = o
	o.runSession(context.Background())

	states := sink.lastStates()
	if len(states) == 0 || states[len(states)-1] != StateAborted {
		t.Fatalf("final state = %v, want last=Aborted", states)
	}

	spectrum := sink.lastSpectrum()
	for s := 0; s < 10; s++ {
		if spectrum[s] != float64(s+1) {
			t.Errorf("spectrum[%d] = %v, want %v", s, spectrum[s], float64(s+1))
		}
	}
	for s := 10; s < 21; s++ {
		if spectrum[s] != 0 {
			t.Errorf("spectrum[%d] = %v, want 0", s, spectrum[s])
		}
	}

	cmds := srv.seen()
	abortCount := 0
	statusCount := 0
	for _, c := range cmds {
		if c == "Abort" {
			abortCount++
		}
		if c == "GetAcquisitionStatus" {
			statusCount++
		}
	}
	if abortCount != 1 {
		t.Errorf("Abort issued %d times, want 1", abortCount)
	}
	if statusCount != 1 {
		t.Errorf("GetAcquisitionStatus issued %d times, want 1 (no further polling after stop)", statusCount)
	}
}

// stopOnFirstArraySink calls StopAcquisition as soon as the first partial
// array publication is observed, simulating a user-initiated abort mid
// acquisition.
type stopOnFirstArraySink struct {
	*recordingSink
	orchestrator *Orchestrator
	stopped      bool
}

func (s *stopOnFirstArraySink) PublishArrays(spectrum, image, volume []float64) {
	s.recordingSink.PublishArrays(spectrum, image, volume)
	if !s.stopped {
		s.stopped = true
		s.orchestrator.StopAcquisition()
	}
}

// recordingHistorySink records every SessionOutcome handed to it.
type recordingHistorySink struct {
	mu       sync.Mutex
	outcomes []SessionOutcome
}

func (h *recordingHistorySink) RecordSession(o SessionOutcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes = append(h.outcomes, o)
}

func (h *recordingHistorySink) last() (SessionOutcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.outcomes) == 0 {
		return SessionOutcome{}, false
	}
	return h.outcomes[len(h.outcomes)-1], true
}

func TestOrchestrator_RecordsHistoryOnFinish(t *testing.T) {
	t.Parallel()

	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	statusCalls := 0
	_, addr := startCommandServer(t, func(cmd string) string {
		switch cmd {
		case "ClearSpectrum", "Start":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAcquisitionStatus":
			statusCalls++
			if statusCalls < 2 {
				return "OK: ControllerState:Running NumberOfAcquiredPoints:0"
			}
			return "OK: ControllerState:Finished NumberOfAcquiredPoints:21"
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return `Error: 1 "unhandled command"`
		}
	})

	sink := &recordingSink{}
	history := &recordingHistorySink{}
	scalars := fixedScalars{cfg: SessionConfig{
		RunMode: analyzer.ModeFAT,
		Inputs: analyzer.SpectrumInputs{
			StartEnergy: 400, EndEnergy: 410, StepWidth: 0.5,
			PassEnergy: 20, DwellTime: 0.1, LensMode: "Angular", ScanRange: "Narrow",
		},
		Iterations: 1,
	}}

	o := newTestOrchestrator(t, addr, sink, scalars)
	o.SetHistorySink(history)
	o.runSession(context.Background())

	outcome, ok := history.last()
	if !ok {
		t.Fatal("expected a SessionOutcome to be recorded")
	}
	if outcome.FinalState != StateFinished {
		t.Errorf("FinalState = %v, want Finished", outcome.FinalState)
	}
	if outcome.IterationsRequested != 1 || outcome.IterationsCompleted != 1 {
		t.Errorf("iterations = %d/%d, want 1/1", outcome.IterationsCompleted, outcome.IterationsRequested)
	}
	if outcome.ID.String() == "" {
		t.Error("expected a non-zero session ID")
	}
	if outcome.EndedAt.Before(outcome.StartedAt) {
		t.Errorf("EndedAt %v before StartedAt %v", outcome.EndedAt, outcome.StartedAt)
	}
}

func TestOrchestrator_RecordsHistoryOnAbort(t *testing.T) {
	t.Parallel()

	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	_, addr := startCommandServer(t, func(cmd string) string {
		switch cmd {
		case "ClearSpectrum", "Start", "Abort":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAcquisitionStatus":
			return "OK: ControllerState:Running NumberOfAcquiredPoints:10"
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return `Error: 1 "unhandled command"`
		}
	})

	var o *Orchestrator
	sink := &recordingSink{}
	stoppingSink := &stopOnFirstArraySink{recordingSink: sink}
	history := &recordingHistorySink{}
	scalars := fixedScalars{cfg: SessionConfig{
		RunMode: analyzer.ModeFAT,
		Inputs: analyzer.SpectrumInputs{
			StartEnergy: 400, EndEnergy: 410, StepWidth: 0.5,
			PassEnergy: 20, DwellTime: 0.1,
		},
		Iterations: 1,
	}}

	o = newTestOrchestrator(t, addr, stoppingSink, scalars)
	o.SetHistorySink(history)
	stoppingSink.orchestrator = o
	o.runSession(context.Background())

	outcome, ok := history.last()
	if !ok {
		t.Fatal("expected a SessionOutcome to be recorded")
	}
	if outcome.FinalState != StateAborted {
		t.Errorf("FinalState = %v, want Aborted", outcome.FinalState)
	}
	if outcome.Message == "" {
		t.Error("expected a non-empty abort message")
	}
	if outcome.IterationsCompleted != 0 {
		t.Errorf("IterationsCompleted = %d, want 0", outcome.IterationsCompleted)
	}
}
