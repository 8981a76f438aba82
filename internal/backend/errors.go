package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend operations.
var (
	// ErrPoolExhausted indicates that every instance of a pool failed its
	// health probe during a single selection.
	ErrPoolExhausted = errors.New("pool exhausted")

	// ErrNoInstances indicates that a pool was configured without instances.
	ErrNoInstances = errors.New("pool has no instances")

	// ErrInvalidInstance indicates that an instance address is not an
	// absolute http or https URL.
	ErrInvalidInstance = errors.New("invalid instance address")

	// ErrDuplicatePool indicates that two pools share a name.
	ErrDuplicatePool = errors.New("duplicate pool name")
)

// SelectError is returned when no instance could be chosen from a pool.
type SelectError struct {
	Pool  string // Pool name
	Cause error  // ErrPoolExhausted or the context error
}

// Error implements the error interface.
func (e *SelectError) Error() string {
	return fmt.Sprintf("select instance from pool %s: %v", e.Pool, e.Cause)
}

// Unwrap returns the underlying error.
func (e *SelectError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *SelectError) Is(target error) bool {
	_, ok := target.(*SelectError)
	return ok || errors.Is(e.Cause, target)
}

// IsPoolExhausted reports whether err means that no instance of a pool
// was healthy.
func IsPoolExhausted(err error) bool {
	return errors.Is(err, ErrPoolExhausted)
}
