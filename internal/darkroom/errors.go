package darkroom

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a dataset, photo, or task the service does not know
// about (or one whose record has expired).
var ErrNotFound = errors.New("not found")

// NetworkError wraps a transport-level failure: connection refused, DNS
// failure, timeout. The request never produced an HTTP status.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response. Body holds the response payload,
// truncated, for display.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
}

// ValidationError reports client-detectable bad input, caught before the
// request reaches the wire.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Reason }
