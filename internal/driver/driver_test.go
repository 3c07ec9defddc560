package driver

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/analyzer"
	"github.com/specs-group/kreiosd/internal/history"
)

// fakeServer is a single-connection fake Prodigy server that delegates
// every request to respond, keyed by command token.
type fakeServer struct {
	mu    sync.Mutex
	calls map[string]int
}

func (s *fakeServer) count(cmd string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[cmd]++
	return s.calls[cmd]
}

func startFakeServer(t *testing.T, respond func(cmd string, n int) string) string {
	t.Helper()
	srv := &fakeServer{calls: make(map[string]int)}
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
			n := srv.count(cmd)
			body := respond(cmd, n)
			if _, err := conn.Write([]byte("!" + id + " " + body + "\n")); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String()
}

func newTestDriver(t *testing.T, addr string) *Driver {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return New(Config{
		Host:         host,
		Port:         port,
		Timeout:      time.Second,
		PollInterval: time.Millisecond,
	})
}

func TestDriver_ConnectPopulatesSnapshot(t *testing.T) {
	t.Parallel()

	addr := startFakeServer(t, func(cmd string, n int) string {
		switch cmd {
		case "GetAllAnalyzerParameterNames":
			return "OK: Names:[]"
		case "GetSpectrumParameterInfo":
			return "OK: Values:Angular,Transmission"
		default:
			return "OK"
		}
	})

	d := newTestDriver(t, addr)
	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	snap := d.Status()
	if !snap.Connection.Connected {
		t.Fatal("expected Connected = true after Connect")
	}
	if snap.State != acquisition.StateIdle {
		t.Errorf("State = %v, want Idle", snap.State)
	}
}

func TestDriver_SetScalar_RejectedWhileBusy(t *testing.T) {
	t.Parallel()

	d := New(Config{Host: "127.0.0.1", Port: 1, Timeout: time.Millisecond})
	d.store.PublishState(acquisition.StateRunning)

	if err := d.SetScalar("StartEnergy", 400); err == nil {
		t.Fatal("expected AcquisitionBusy error while running")
	}
	if err := d.SetRunMode(analyzer.ModeFAT); err == nil {
		t.Fatal("expected AcquisitionBusy error while running")
	}
}

func TestDriver_EndToEndAcquisition(t *testing.T) {
	t.Parallel()

	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	addr := startFakeServer(t, func(cmd string, n int) string {
		switch cmd {
		case "ClearSpectrum", "Start":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAllAnalyzerParameterNames":
			return "OK: Names:[]"
		case "GetSpectrumParameterInfo":
			return "OK: Values:Angular,Transmission"
		case "GetAcquisitionStatus":
			if n <= 1 {
				return "OK: ControllerState:Running NumberOfAcquiredPoints:0"
			}
			return "OK: ControllerState:Finished NumberOfAcquiredPoints:21"
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return "OK"
		}
	})

	d := newTestDriver(t, addr)
	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	_ = d.SetScalar("StartEnergy", 400)
	_ = d.SetScalar("EndEnergy", 410)
	_ = d.SetScalar("StepWidth", 0.5)
	_ = d.SetScalar("PassEnergy", 20)
	_ = d.SetScalar("DwellTime", 0.1)
	d.SetLensMode("Angular")
	d.SetScanRange("Narrow")
	if err := d.SetRunMode(analyzer.ModeFAT); err != nil {
		t.Fatalf("SetRunMode: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.StartAcquisition()

	deadline := time.After(2 * time.Second)
	for {
		snap := d.Status()
		if snap.State == acquisition.StateIdle && len(snap.Spectrum) == 21 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("acquisition did not finish in time, last state=%v", snap.State)
		case <-time.After(time.Millisecond):
		}
	}

	snap := d.Status()
	for i, v := range snap.Spectrum {
		if v != float64(i+1) {
			t.Errorf("Spectrum[%d] = %v, want %v", i, v, float64(i+1))
		}
	}
	if snap.Frame.NDims != 1 || snap.Frame.Dims[0] != 21 {
		t.Errorf("unexpected frame: %+v", snap.Frame)
	}
}

func TestDriver_SetHistorySink_RecordsCompletedSession(t *testing.T) {
	t.Parallel()

	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(i + 1)
	}
	data := analyzer.FormatDataArray(values)

	addr := startFakeServer(t, func(cmd string, n int) string {
		switch cmd {
		case "ClearSpectrum", "Start":
			return "OK"
		case "DefineSpectrumFAT":
			return "OK"
		case "ValidateSpectrum":
			return "OK: Samples:21 ValuesPerSample:1 NumberOfSlices:1"
		case "GetAllAnalyzerParameterNames":
			return "OK: Names:[]"
		case "GetSpectrumParameterInfo":
			return "OK: Values:Angular,Transmission"
		case "GetAcquisitionStatus":
			if n <= 1 {
				return "OK: ControllerState:Running NumberOfAcquiredPoints:0"
			}
			return "OK: ControllerState:Finished NumberOfAcquiredPoints:21"
		case "GetAcquisitionData":
			return "OK: Data:" + data
		case "GetAnalyzerParameterValue":
			return "OK: Value:1"
		default:
			return "OK"
		}
	})

	d := newTestDriver(t, addr)
	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	store, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	defer store.Close()
	d.SetHistorySink(store)

	_ = d.SetScalar("StartEnergy", 400)
	_ = d.SetScalar("EndEnergy", 410)
	_ = d.SetScalar("StepWidth", 0.5)
	_ = d.SetScalar("PassEnergy", 20)
	_ = d.SetScalar("DwellTime", 0.1)
	d.SetLensMode("Angular")
	d.SetScanRange("Narrow")
	if err := d.SetRunMode(analyzer.ModeFAT); err != nil {
		t.Fatalf("SetRunMode: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.StartAcquisition()

	deadline := time.After(2 * time.Second)
	for {
		snap := d.Status()
		if snap.State == acquisition.StateIdle && len(snap.Spectrum) == 21 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("acquisition did not finish in time, last state=%v", snap.State)
		case <-time.After(time.Millisecond):
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].FinalState != acquisition.StateFinished {
		t.Errorf("FinalState = %v, want Finished", records[0].FinalState)
	}
	if records[0].RunMode != analyzer.ModeFAT {
		t.Errorf("RunMode = %v, want FAT", records[0].RunMode)
	}
}
