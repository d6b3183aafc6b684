// backend.go - Capability-Module, Registrierung und Probing
// Dieses Modul definiert die Schnittstellen, die Backend-Pakete beim Laden
// bereitstellen, sowie die Registry, ueber die sie gefunden werden.
package ml

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ollama/devicemgr/logutil"
)

// Module is a loaded capability module.
type Module interface {
	Name() string
}

// Loader loads a capability module. Returning an error marks the module
// as absent in the current environment.
type Loader func() (Module, error)

// Accelerator is implemented by modules that back a device family.
type Accelerator interface {
	Module

	Backend() Backend

	// Available performs a live usability check. Module presence alone does
	// not guarantee a working driver and device.
	Available() bool

	// DeviceCount returns the number of devices usable through this module
	DeviceCount() int

	// DeviceInfo returns the properties of the device at index
	DeviceInfo(index int) (DeviceInfo, error)

	// Synchronize blocks until queued work on the device at index completes.
	// Backends without such a primitive return nil.
	Synchronize(index int) error
}

// Mover is implemented by accelerators that can copy payloads into device
// memory. Payloads it does not understand yield ErrNotMovable. The returned
// payload records id as its placement.
type Mover interface {
	Move(payload any, id DeviceID) (any, error)
}

// Host is implemented by the CPU module.
type Host interface {
	Module

	ThreadCounts() (intraOp, interOp int)
}

// Optimizer is implemented by the model optimization extension.
type Optimizer interface {
	Module

	// Optimize returns an optimized copy of payload. Payloads the optimizer
	// does not understand are returned unchanged.
	Optimize(payload any) (any, error)
}

// Placer is implemented by payloads that can place themselves on a device.
type Placer interface {
	To(id DeviceID) (any, error)
}

var (
	modulesMu sync.RWMutex
	modules   = make(map[string]Loader)
)

// RegisterModule registers a capability module loader.
func RegisterModule(name string, l Loader) {
	modulesMu.Lock()
	defer modulesMu.Unlock()

	if _, ok := modules[name]; ok {
		panic("ml: module already registered: " + name)
	}

	modules[name] = l
}

// RegisteredModules returns the sorted names of all registered modules.
func RegisteredModules() []string {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Probe attempts to load the named module. Unregistered modules, loader
// errors, loader panics and nil modules all report false; the cause is only
// logged.
func Probe(name string) (m Module, ok bool) {
	modulesMu.RLock()
	loader, found := modules[name]
	modulesMu.RUnlock()

	if !found {
		slog.Debug("capability module not registered", "module", name)
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("capability module unavailable", "module", name, "error", fmt.Sprint(r))
			m, ok = nil, false
		}
	}()

	m, err := loader()
	if err != nil {
		slog.Debug("capability module unavailable", "module", name, "error", err)
		return nil, false
	}
	if m == nil {
		slog.Debug("capability module unavailable", "module", name, "error", "loader returned no module")
		return nil, false
	}

	logutil.Trace("capability module loaded", "module", name)
	return m, true
}
