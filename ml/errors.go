package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by module loaders when the backing library
	// or hardware is not present
	ErrUnavailable = errors.New("backend unavailable")

	// ErrNotMovable is returned when a payload cannot be placed on a device
	ErrNotMovable = errors.New("payload cannot be moved")
)

// BackendError reports a failed call into a backend runtime.
type BackendError struct {
	Backend Backend
	Op      string
	Code    int
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s failed (code %d)", e.Backend, e.Op, e.Code)
}
