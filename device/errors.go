package device

import (
	"errors"
	"fmt"
)

// ErrInvalidDevice is matched by every *InvalidDeviceError.
var ErrInvalidDevice = errors.New("invalid device")

// InvalidDeviceError is returned by New when the preferred device is not in
// the valid device list.
type InvalidDeviceError struct {
	Device     string
	Valid      []ID
	Suggestion string
}

func (e *InvalidDeviceError) Error() string {
	msg := fmt.Sprintf("%s %q, valid devices are %v", ErrInvalidDevice, e.Device, e.Valid)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *InvalidDeviceError) Unwrap() error {
	return ErrInvalidDevice
}
