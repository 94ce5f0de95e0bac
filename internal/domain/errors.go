package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth marks token acquisition failures after the retry budget is
	// spent. Fatal to a run.
	ErrAuth = errors.New("authentication failed")
	// ErrTransport marks connection or timeout failures after the retry
	// budget is spent. Fatal only during the initial listing.
	ErrTransport = errors.New("transport failed")
)

// APIError is a non-2xx management API response. It is never retried at the
// client layer and surfaces as a per-subscription failure.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}
