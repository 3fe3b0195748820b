package lighting

import (
	"errors"
	"fmt"
)

// Domain errors for the lighting package.
var (
	// ErrNetwork is returned when a request cannot be completed: connection
	// refused, timeout, cancellation or a non-2xx response.
	ErrNetwork = errors.New("lighting: network failure")

	// ErrDecode is returned when a response body is not the expected JSON
	// document or lacks the required field.
	ErrDecode = errors.New("lighting: decode failure")

	// ErrInvalidScene is returned when a scene number is outside 0..255.
	ErrInvalidScene = errors.New("lighting: scene out of range")
)

// StatusError reports a non-2xx response from a controller.
// It matches ErrNetwork under errors.Is.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lighting: unexpected status %d from %s", e.Code, e.URL)
}

// Is makes errors.Is(err, ErrNetwork) true for status failures.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}
