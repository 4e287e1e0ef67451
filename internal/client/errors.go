package client

import (
	"errors"
	"fmt"
)

// Error is the only error kind the client returns. Network failures,
// timeouts, cancellations and non-success responses all arrive as *Error;
// callers only ever need the text to show.
type Error struct {
	Op      string // List, Create, Update or Delete
	Status  int    // HTTP status, 0 when no response arrived
	Message string // server-provided message, may be empty
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the server's message carried by err, or fallback when
// err has none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
