package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for driver operations.
const (
	// ========================================================================
	// Transport attributes (C1)
	// ========================================================================
	AttrRemoteAddr = "prodigy.remote_addr"
	AttrLocalAddr  = "prodigy.local_addr"

	// ========================================================================
	// Protocol attributes (C2-C3)
	// ========================================================================
	AttrCommand   = "prodigy.command"
	AttrRequestID = "prodigy.request_id"
	AttrErrorKind = "prodigy.error_kind"
	AttrErrorCode = "prodigy.error_code"

	// ========================================================================
	// Analyzer parameter attributes (C4-C6)
	// ========================================================================
	AttrParameterName = "analyzer.parameter_name"
	AttrParameterType = "analyzer.parameter_type"
	AttrRunMode       = "analyzer.run_mode"
	AttrFromIndex     = "analyzer.from_index"
	AttrToIndex       = "analyzer.to_index"

	// ========================================================================
	// Acquisition attributes (C7)
	// ========================================================================
	AttrSessionID    = "acquisition.session_id"
	AttrDriverState  = "acquisition.state"
	AttrIteration    = "acquisition.iteration"
	AttrIterations   = "acquisition.iterations"
	AttrSamplesTotal = "acquisition.samples_total"
	AttrSampleIndex  = "acquisition.sample_index"

	// ========================================================================
	// Published-state attributes (C8)
	// ========================================================================
	AttrADStatus = "driver.ad_status"

	// ========================================================================
	// History store attributes
	// ========================================================================
	AttrHistoryKey = "history.key"

	// ========================================================================
	// Control plane attributes (pkg/api)
	// ========================================================================
	AttrHTTPMethod = "http.method"
	AttrHTTPPath   = "http.path"
	AttrHTTPStatus = "http.status_code"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// Root span for one Prodigy request/reply exchange.
	SpanProdigyExchange = "prodigy.exchange"

	// Root span for one acquisition session (Start through Finished/Aborted).
	SpanAcquisitionSession = "acquisition.session"

	SpanAcquisitionIteration = "acquisition.iteration"
	SpanAcquisitionPoll      = "acquisition.poll"

	SpanMirrorRefresh  = "analyzer.mirror_refresh"
	SpanSpectrumDefine = "analyzer.spectrum_define"
	SpanDataRead       = "analyzer.data_read"

	SpanHistoryAppend = "history.append"
	SpanHistoryList   = "history.list"

	SpanHTTPRequest = "http.request"
)

// RemoteAddr returns an attribute for the analyzer's TCP address.
func RemoteAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrRemoteAddr, addr)
}

// Command returns an attribute for a Prodigy command name.
func Command(cmd string) attribute.KeyValue {
	return attribute.String(AttrCommand, cmd)
}

// RequestID returns an attribute for a Prodigy request ID.
func RequestID(id uint16) attribute.KeyValue {
	return attribute.Int64(AttrRequestID, int64(id))
}

// ErrorKind returns an attribute for the prodigy.Kind taxonomy value.
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// ErrorCode returns an attribute for a server-reported numeric error code.
func ErrorCode(code int) attribute.KeyValue {
	return attribute.Int(AttrErrorCode, code)
}

// ParameterName returns an attribute for an analyzer parameter name.
func ParameterName(name string) attribute.KeyValue {
	return attribute.String(AttrParameterName, name)
}

// ParameterType returns an attribute for an analyzer parameter type.
func ParameterType(t string) attribute.KeyValue {
	return attribute.String(AttrParameterType, t)
}

// RunMode returns an attribute for the active run mode.
func RunMode(mode string) attribute.KeyValue {
	return attribute.String(AttrRunMode, mode)
}

// SessionID returns an attribute for an acquisition session identifier.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// DriverState returns an attribute for the internal acquisition state.
func DriverState(state string) attribute.KeyValue {
	return attribute.String(AttrDriverState, state)
}

// Iteration returns an attribute for the current iteration index.
func Iteration(n int64) attribute.KeyValue {
	return attribute.Int64(AttrIteration, n)
}

// Iterations returns an attribute for the requested iteration count.
func Iterations(n int64) attribute.KeyValue {
	return attribute.Int64(AttrIterations, n)
}

// SamplesTotal returns an attribute for the effective address space size.
func SamplesTotal(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSamplesTotal, n)
}

// SampleIndex returns an attribute for the last consumed combined address.
func SampleIndex(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSampleIndex, n)
}

// ADStatus returns an attribute for the areaDetector-facing status string.
func ADStatus(status string) attribute.KeyValue {
	return attribute.String(AttrADStatus, status)
}

// HistoryKey returns an attribute for a history store key.
func HistoryKey(key string) attribute.KeyValue {
	return attribute.String(AttrHistoryKey, key)
}

// HTTPMethod returns an attribute for an HTTP request method.
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPPath returns an attribute for an HTTP request path.
func HTTPPath(path string) attribute.KeyValue {
	return attribute.String(AttrHTTPPath, path)
}

// HTTPStatus returns an attribute for an HTTP response status code.
func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}

// StartExchangeSpan starts a span for one Prodigy request/reply exchange.
func StartExchangeSpan(ctx context.Context, cmd string, requestID uint16, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Command(cmd),
		RequestID(requestID),
	}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanProdigyExchange, trace.WithAttributes(allAttrs...))
}

// StartSessionSpan starts a span covering one acquisition session.
func StartSessionSpan(ctx context.Context, sessionID, runMode string, iterations int64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		SessionID(sessionID),
		RunMode(runMode),
		Iterations(iterations),
	}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanAcquisitionSession, trace.WithAttributes(allAttrs...))
}

// StartMirrorSpan starts a span for a parameter mirror refresh.
func StartMirrorSpan(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanMirrorRefresh, trace.WithAttributes(attrs...))
}

// StartHistorySpan starts a span for a history store operation.
func StartHistorySpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "history."+operation, trace.WithAttributes(attrs...))
}

// StartHTTPSpan starts a span for an incoming control-plane HTTP request.
func StartHTTPSpan(ctx context.Context, method, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		HTTPMethod(method),
		HTTPPath(path),
	}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanHTTPRequest, trace.WithAttributes(allAttrs...))
}
