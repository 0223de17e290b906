package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired indicates the server rejected the session credential.
// Errors returned by Client.Do match it via errors.Is when the response
// status was 401, so callers can force re-authentication instead of
// treating it as an ordinary request failure.
var ErrSessionExpired = errors.New("session expired or invalid")

// ErrTransport indicates no response was received at all.
var ErrTransport = errors.New("transport failure")

// Error is a non-2xx response from the server. Status is 0 when no
// response was received.
type Error struct {
	Status  int
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Unwrap exposes the error class for errors.Is checks.
func (e *Error) Unwrap() error { return e.cause }
