package logger

import "log/slog"

// Standard field keys for structured logging across the driver core.
// Use these keys consistently across all log statements for log
// aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Prodigy Protocol (C1-C3)
	// ========================================================================
	KeyRequestID   = "request_id"   // Prodigy request ID (4-hex)
	KeyCommand     = "command"      // Prodigy command name
	KeyErrorKind   = "error_kind"    // prodigy.Kind taxonomy value
	KeyErrorCode   = "error_code"    // Server-reported numeric error code
	KeyServerMsg   = "server_message" // Server-reported error message

	// ========================================================================
	// Acquisition (C7)
	// ========================================================================
	KeySessionID       = "session_id"       // Acquisition session UUID
	KeyRunMode         = "run_mode"         // FAT, SFAT, FRR, FE, LVS
	KeyControllerState = "controller_state" // Prodigy-reported controller state
	KeyDriverState     = "driver_state"     // internal acquisition.State
	KeyIteration       = "iteration"        // Current iteration index (0-based)
	KeyIterations      = "iterations"       // Requested iteration count
	KeySampleIndex     = "sample_index"     // Last consumed combined (slice,sample) address
	KeySamplesTotal    = "samples_total"    // Effective address space (S or S*N)

	// ========================================================================
	// Analyzer Parameters (C4-C6)
	// ========================================================================
	KeyParameterName = "parameter_name" // Analyzer parameter name
	KeyParameterType = "parameter_type" // double, integer, string, bool

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyOperation  = "operation"   // Sub-operation type for complex operations

	// ========================================================================
	// Control Plane (pkg/api)
	// ========================================================================
	KeyHTTPMethod = "method"
	KeyHTTPPath   = "path"
	KeyHTTPStatus = "status"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for OpenTelemetry span ID.
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// RequestID returns a slog.Attr for a Prodigy request ID.
func RequestID(id uint16) slog.Attr { return slog.Any(KeyRequestID, id) }

// Command returns a slog.Attr for a Prodigy command name.
func Command(cmd string) slog.Attr { return slog.String(KeyCommand, cmd) }

// ErrorKind returns a slog.Attr for the prodigy.Kind taxonomy.
func ErrorKind(kind string) slog.Attr { return slog.String(KeyErrorKind, kind) }

// ErrorCode returns a slog.Attr for a server-reported numeric error code.
func ErrorCode(code int) slog.Attr { return slog.Int(KeyErrorCode, code) }

// SessionID returns a slog.Attr for an acquisition session identifier.
func SessionID(id string) slog.Attr { return slog.String(KeySessionID, id) }

// RunMode returns a slog.Attr for the active run mode.
func RunMode(mode string) slog.Attr { return slog.String(KeyRunMode, mode) }

// ControllerState returns a slog.Attr for the Prodigy-reported controller state.
func ControllerState(state string) slog.Attr { return slog.String(KeyControllerState, state) }

// DriverState returns a slog.Attr for the internal acquisition state.
func DriverState(state string) slog.Attr { return slog.String(KeyDriverState, state) }

// Iteration returns a slog.Attr for the current iteration index.
func Iteration(n int64) slog.Attr { return slog.Int64(KeyIteration, n) }

// Iterations returns a slog.Attr for the requested iteration count.
func Iterations(n int64) slog.Attr { return slog.Int64(KeyIterations, n) }

// SampleIndex returns a slog.Attr for the last consumed combined address.
func SampleIndex(n int64) slog.Attr { return slog.Int64(KeySampleIndex, n) }

// SamplesTotal returns a slog.Attr for the effective address space size.
func SamplesTotal(n int64) slog.Attr { return slog.Int64(KeySamplesTotal, n) }

// ParameterName returns a slog.Attr for an analyzer parameter name.
func ParameterName(name string) slog.Attr { return slog.String(KeyParameterName, name) }

// DurationMs returns a slog.Attr for an operation duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Operation returns a slog.Attr for a sub-operation type.
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// Err returns a slog.Attr for an error value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
