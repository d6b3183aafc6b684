// device.go
// Dieses Modul enthaelt den Backend-Typ und die DeviceID, die einen
// Eintrag der Geraeteliste eindeutig beschreibt.

package ml

import (
	"fmt"
	"strconv"
	"strings"
)

// Backend is a hardware/runtime family.
type Backend int

const (
	CPU Backend = iota
	CUDA
	XPU
	MPS
)

var backendNames = [...]string{
	CPU:  "cpu",
	CUDA: "cuda",
	XPU:  "xpu",
	MPS:  "mps",
}

func (b Backend) String() string {
	if b >= 0 && int(b) < len(backendNames) {
		return backendNames[b]
	}
	return "unknown"
}

// Indexed reports whether devices of this backend are addressed by an
// ordinal index. Only the discrete accelerator families are.
func (b Backend) Indexed() bool {
	switch b {
	case CUDA, XPU:
		return true
	case MPS, CPU:
		return false
	}
	return false
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func ParseBackend(s string) (Backend, error) {
	for b, name := range backendNames {
		if name == s {
			return Backend(b), nil
		}
	}
	return CPU, fmt.Errorf("unknown backend %q", s)
}

// DeviceID identifies a device. Index is negative for a bare backend
// identifier such as "cuda" or "cpu".
type DeviceID struct {
	Backend Backend
	Index   int
}

func BareID(b Backend) DeviceID {
	return DeviceID{Backend: b, Index: -1}
}

func IndexedID(b Backend, index int) DeviceID {
	return DeviceID{Backend: b, Index: index}
}

// IsBare reports whether the id carries no index suffix
func (id DeviceID) IsBare() bool {
	return id.Index < 0 || !id.Backend.Indexed()
}

// Ordinal is the device index a runtime should use for id. Bare
// identifiers address the current (first) device.
func (id DeviceID) Ordinal() int {
	if id.IsBare() {
		return 0
	}
	return id.Index
}

func (id DeviceID) String() string {
	if id.IsBare() {
		return id.Backend.String()
	}
	return id.Backend.String() + ":" + strconv.Itoa(id.Index)
}

func (id DeviceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DeviceID) UnmarshalText(text []byte) error {
	v, err := ParseDeviceID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ParseDeviceID parses "cpu", "mps", "cuda", "xpu" or an indexed form
// like "cuda:0". Backends without indexing reject a suffix.
func ParseDeviceID(s string) (DeviceID, error) {
	name, idx, indexed := strings.Cut(s, ":")
	b, err := ParseBackend(name)
	if err != nil {
		return DeviceID{}, err
	}
	if !indexed {
		return BareID(b), nil
	}
	if !b.Indexed() {
		return DeviceID{}, fmt.Errorf("backend %s does not take a device index: %q", b, s)
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return DeviceID{}, fmt.Errorf("invalid device index in %q", s)
	}
	return IndexedID(b, n), nil
}
