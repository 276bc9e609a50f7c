package api

import (
	"errors"
	"fmt"
)

var (
	ErrTransport       = errors.New("backend unreachable")
	ErrInvalidResponse = errors.New("invalid response from backend")
)

// Error is a non-2xx answer from the backend. Message holds the response's
// optional `error` field and may be empty.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// ErrorMessage returns the human-readable message the backend attached to err,
// or fallback when there is none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
