// Package prodigy implements the SpecsLab Prodigy Remote-In v1.22 text
// protocol: connection transport, request/reply framing, and the
// single-in-flight request broker.
package prodigy

import "fmt"

// Kind classifies a protocol-level failure so callers can branch on cause
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionUnavailable
	KindTransportTimeout
	KindTransportLost
	KindProtocolFraming
	KindProtocolMismatchedID
	KindProtocolServerError
	KindValidationFailed
	KindAcquisitionShort
	KindAcquisitionBusy
	KindUserAborted
)

func (k Kind) String() string {
	switch k {
	case KindConnectionUnavailable:
		return "connection_unavailable"
	case KindTransportTimeout:
		return "transport_timeout"
	case KindTransportLost:
		return "transport_lost"
	case KindProtocolFraming:
		return "protocol_framing"
	case KindProtocolMismatchedID:
		return "protocol_mismatched_id"
	case KindProtocolServerError:
		return "protocol_server_error"
	case KindValidationFailed:
		return "validation_failed"
	case KindAcquisitionShort:
		return "acquisition_short"
	case KindAcquisitionBusy:
		return "acquisition_busy"
	case KindUserAborted:
		return "user_aborted"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package. Kind drives
// control flow; Code and ServerMessage are only populated for
// KindProtocolServerError.
type Error struct {
	Kind          Kind
	Code          int
	ServerMessage string
	Message       string
	Err           error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindProtocolServerError:
		return fmt.Sprintf("prodigy: server error %d: %s", e.Code, e.ServerMessage)
	case e.Err != nil:
		return fmt.Sprintf("prodigy: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("prodigy: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, allowing
// callers to use errors.Is(err, &prodigy.Error{Kind: KindTransportLost}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func newServerError(code int, message string) *Error {
	return &Error{Kind: KindProtocolServerError, Code: code, ServerMessage: message}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	pe, ok := err.(*Error)
	if !ok {
		return false
	}
	return pe.Kind == kind
}
