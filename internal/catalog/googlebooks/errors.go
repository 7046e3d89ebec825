package googlebooks

import (
	"errors"
	"fmt"
)

// Sentinel errors for Google Books API operations.
var (
	ErrNotFound    = errors.New("googlebooks: not found")
	ErrRateLimited = errors.New("googlebooks: rate limited by server")
)

// UpstreamError carries the provider's HTTP status so callers can
// propagate it instead of a generic 500.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("googlebooks: upstream status %d: %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Error wraps an underlying error with operation context.
type Error struct {
	Op       string // "search" or "getVolume"
	VolumeID string // if applicable
	Err      error
}

func (e *Error) Error() string {
	if e.VolumeID != "" {
		return fmt.Sprintf("googlebooks %s [%s]: %v", e.Op, e.VolumeID, e.Err)
	}
	return fmt.Sprintf("googlebooks %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapError(op, volumeID string, err error) error {
	return &Error{Op: op, VolumeID: volumeID, Err: err}
}
