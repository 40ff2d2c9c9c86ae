package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup miss or an absent cache entry. Always
// recoverable; never emitted as an event.
var ErrNotFound = errors.New("registry: not found")

// ErrLockUnavailable reports that the cross-process cache lock could not be
// acquired promptly. The refresh cycle is skipped, not failed.
var ErrLockUnavailable = errors.New("registry: cache lock unavailable")

// FormatError reports malformed registry text. It aborts the parse (and the
// load or refresh attempt that ran it) but is never fatal to the process.
type FormatError struct {
	// Line is the 1-based line number where parsing failed, 0 if unknown.
	Line int
	// Msg describes what was malformed.
	Msg string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("registry: malformed input at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("registry: malformed input: %s", e.Msg)
}

// TransportError reports a failed download from the source location.
// The previous snapshot stays in service.
type TransportError struct {
	// URI is the source location that failed.
	URI string
	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("registry: fetching %s: %v", e.URI, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
