package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for forwarding operations.
var (
	// ErrTransport indicates that no response was obtained from the
	// upstream instance.
	ErrTransport = errors.New("upstream transport failure")

	// ErrUpstreamTimeout indicates that the upstream request timed out.
	ErrUpstreamTimeout = errors.New("upstream request timed out")

	// ErrResponseTooLarge indicates that the upstream body exceeded the
	// configured limit.
	ErrResponseTooLarge = errors.New("upstream response too large")
)

// Operations reported in TransportError.Op.
const (
	OpBuildRequest = "build_request"
	OpRoundTrip    = "round_trip"
	OpReadBody     = "read_body"
)

// TransportError is returned when forwarding could not obtain a complete
// response from the chosen instance.
type TransportError struct {
	Op      string // Operation that failed
	Service string // Service name
	Target  string // Upstream URL
	Message string // Human-readable message
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("forward to %s [%s] target=%s: %s: %v",
			e.Service, e.Op, e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("forward to %s [%s] target=%s: %s",
		e.Service, e.Op, e.Target, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	if target == ErrUpstreamTimeout {
		return e.Timeout()
	}
	_, ok := target.(*TransportError)
	return ok || errors.Is(e.Cause, target)
}

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// NewTransportError creates a new TransportError, choosing the message
// from the cause.
func NewTransportError(op, service, target string, cause error) *TransportError {
	e := &TransportError{
		Op:      op,
		Service: service,
		Target:  target,
		Cause:   cause,
	}
	switch {
	case e.Timeout():
		e.Message = "request timed out"
	case errors.Is(cause, ErrResponseTooLarge):
		e.Message = "response too large"
	case errors.Is(cause, context.Canceled):
		e.Message = "request cancelled"
	default:
		e.Message = "request failed"
	}
	return e
}

// IsTransportError checks if an error is a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
