package types

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across executor, monitor and HTTP surfaces.
var (
	// ErrPositionNotFound covers exits referencing an absent or already
	// closed position id. Reported, never retried.
	ErrPositionNotFound = errors.New("position not found")

	// ErrSnapshotUnavailable is non-fatal: the monitor skips the position
	// this cycle and retries on the next one.
	ErrSnapshotUnavailable = errors.New("market snapshot unavailable")
)

// ValidationError rejects bad order parameters before any venue call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// VenueError wraps order placement or snapshot failures from the venue
// connector. Position state is left unchanged by the caller, so the
// operation is eligible for retry on the next monitoring cycle.
type VenueError struct {
	Op  string
	Err error
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("venue %s failed: %v", e.Op, e.Err)
}

func (e *VenueError) Unwrap() error { return e.Err }

// IsVenue reports whether err is (or wraps) a VenueError.
func IsVenue(err error) bool {
	var ve *VenueError
	return errors.As(err, &ve)
}
