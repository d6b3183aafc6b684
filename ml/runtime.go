// runtime.go
// Dieses Modul enthaelt die Runtime, die Anfragen anhand der DeviceID an das
// passende geladene Capability-Modul weiterreicht.

package ml

import (
	"errors"
	"fmt"
	"runtime"
)

// Runtime dispatches device queries and payload moves to loaded modules.
type Runtime struct {
	accelerators map[Backend]Accelerator
	host         Host
}

// NewRuntime builds a Runtime from loaded modules. When several modules back
// the same family, the first one wins.
func NewRuntime(mods ...Module) *Runtime {
	r := &Runtime{accelerators: make(map[Backend]Accelerator)}
	for _, m := range mods {
		if a, ok := m.(Accelerator); ok {
			if _, exists := r.accelerators[a.Backend()]; !exists {
				r.accelerators[a.Backend()] = a
			}
		}
		if h, ok := m.(Host); ok && r.host == nil {
			r.host = h
		}
	}
	return r
}

func (r *Runtime) BackendAvailable(b Backend) bool {
	a, ok := r.accelerators[b]
	return ok && a.Available()
}

func (r *Runtime) DeviceCount(b Backend) int {
	if a, ok := r.accelerators[b]; ok {
		return a.DeviceCount()
	}
	return 0
}

func (r *Runtime) DeviceInfo(id DeviceID) (DeviceInfo, error) {
	a, ok := r.accelerators[id.Backend]
	if !ok {
		return DeviceInfo{}, fmt.Errorf("%s: %w", id, ErrUnavailable)
	}
	info, err := a.DeviceInfo(id.Ordinal())
	if err != nil {
		return DeviceInfo{}, err
	}
	info.ID = id
	return info, nil
}

// Move places payload on id. The backend's Mover is preferred; payloads it
// does not handle fall back to placing themselves.
func (r *Runtime) Move(payload any, id DeviceID) (any, error) {
	if a, ok := r.accelerators[id.Backend]; ok {
		if m, ok := a.(Mover); ok {
			moved, err := m.Move(payload, id)
			if err == nil {
				return moved, nil
			} else if !errors.Is(err, ErrNotMovable) {
				return nil, err
			}
		}
	}

	if p, ok := payload.(Placer); ok {
		return p.To(id)
	}

	return nil, fmt.Errorf("%w: %T to %s", ErrNotMovable, payload, id)
}

func (r *Runtime) Synchronize(id DeviceID) error {
	a, ok := r.accelerators[id.Backend]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnavailable)
	}
	return a.Synchronize(id.Ordinal())
}

// ThreadCounts returns the host thread configuration, or GOMAXPROCS and a
// single inter-op thread when no host module was loaded.
func (r *Runtime) ThreadCounts() (intraOp, interOp int) {
	if r.host == nil {
		return runtime.GOMAXPROCS(0), 1
	}
	return r.host.ThreadCounts()
}
