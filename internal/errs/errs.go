// Package errs defines the stable error kinds used across the coaching
// engine. Boundaries convert raw failures into one of these kinds so callers
// can distinguish "no data" from "operation failed" without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a stable identifier for a failure mode.
type Kind string

const (
	// ScanError covers missing paths and permission failures during a
	// repository scan. Scans skip and continue on these.
	ScanError Kind = "SCAN_ERROR"
	// GitCommandError covers non-zero exits, timeouts, and a missing git
	// binary. Callers treat the affected operation as an empty result.
	GitCommandError Kind = "GIT_COMMAND_ERROR"
	// BackendUnavailable covers failed probes, network errors, and
	// malformed responses from a suggestion backend.
	BackendUnavailable Kind = "BACKEND_UNAVAILABLE"
	// ProfileCorrupt covers JSON parse failures when loading the profile.
	// Callers treat the profile as absent and ask for a rebuild.
	ProfileCorrupt Kind = "PROFILE_CORRUPT"
	// PersistenceError covers disk write failures. In-memory results are
	// kept, but durability is not guaranteed.
	PersistenceError Kind = "PERSISTENCE_ERROR"
)

// Error carries a Kind, a human-readable message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
