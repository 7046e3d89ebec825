package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB API operations.
var (
	ErrNotFound    = errors.New("tmdb: not found")
	ErrRateLimited = errors.New("tmdb: rate limited by server")
	ErrInvalidKey  = errors.New("tmdb: invalid api key")
)

// UpstreamError carries the provider's HTTP status so callers can
// propagate it instead of a generic 500.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb: upstream status %d: %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Error wraps an underlying error with operation context.
type Error struct {
	Op      string // "search", "getMovie" or "genres"
	MovieID string // if applicable
	Err     error
}

func (e *Error) Error() string {
	if e.MovieID != "" {
		return fmt.Sprintf("tmdb %s [%s]: %v", e.Op, e.MovieID, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapError(op, movieID string, err error) error {
	return &Error{Op: op, MovieID: movieID, Err: err}
}
