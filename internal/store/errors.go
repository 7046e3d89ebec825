package store

import (
	"fmt"
	"net/http"
)

// Error is a storage error carrying the HTTP status the condition maps
// to. Handlers pass it through without translating.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the status code for this error.
func (e *Error) HTTPCode() int { return e.Code }

// Sentinels. Store methods return these directly or wrap them with %w,
// so callers match with errors.Is.
var (
	ErrNotFound      = &Error{Code: http.StatusNotFound, Message: "resource not found"}
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "resource already exists"}
)
