// MODUL: levelzero
// ZWECK: XPU Backend ueber den oneAPI Level Zero Loader
// INPUT: libze_loader aus dem Systempfad oder aus $ONEAPI_ROOT/lib
// OUTPUT: ml.Accelerator fuer das Backend "xpu"
// NEBENEFFEKTE: Laedt den Loader dynamisch (purego, kein CGO)
// ABHAENGIGKEITEN: ze_linux.go (Bindings), ze_other.go (Stub)
// HINWEISE: Registriert zwei Module (xpu, xpu.oneapi), die dieselbe Familie bedienen

package levelzero

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/ml"
)

const libName = "libze_loader.so.1"

// ============================================================================
// loader - Abstraktion ueber den Level Zero Loader
// ============================================================================

type loader interface {
	devices() ([]ml.DeviceInfo, error)
}

// ============================================================================
// Backend - XPU Capability-Modul
// ============================================================================

// Backend implementiert ml.Accelerator fuer Level-Zero-GPUs.
type Backend struct {
	name    string
	library string

	// devices fragt den Loader einmalig ab
	devices func() ([]ml.DeviceInfo, error)
}

func newBackend(name string, ze loader) *Backend {
	return &Backend{name: name, library: "Level Zero", devices: sync.OnceValues(ze.devices)}
}

// Name gibt den Modulnamen zurueck (xpu oder xpu.oneapi).
func (b *Backend) Name() string {
	return b.name
}

// Backend gibt ml.XPU zurueck.
func (b *Backend) Backend() ml.Backend {
	return ml.XPU
}

// Available prueft ob der Loader GPU-Geraete meldet; der Loader allein reicht nicht.
func (b *Backend) Available() bool {
	devs, err := b.devices()
	return err == nil && len(devs) > 0
}

// DeviceCount gibt die Anzahl der GPU-Geraete zurueck.
func (b *Backend) DeviceCount() int {
	devs, err := b.devices()
	if err != nil {
		return 0
	}
	return len(devs)
}

// DeviceInfo gibt die Eigenschaften des Geraets an index zurueck.
func (b *Backend) DeviceInfo(index int) (ml.DeviceInfo, error) {
	devs, err := b.devices()
	if err != nil {
		return ml.DeviceInfo{}, err
	}
	if index < 0 || index >= len(devs) {
		return ml.DeviceInfo{}, fmt.Errorf("xpu: invalid device ordinal %d", index)
	}

	info := devs[index]
	info.ID = ml.IndexedID(ml.XPU, index)
	info.Library = b.library
	info.ComputeMajor, info.ComputeMinor = -1, -1
	return info, nil
}

// Synchronize ist ein No-Op: der Loader bietet keinen geraeteweiten Barrier
// ohne eigene Command Queue.
func (b *Backend) Synchronize(int) error {
	return nil
}

// ============================================================================
// Init - Registriere beide XPU-Module beim Package-Load
// ============================================================================

var errNoOneAPI = errors.New("xpu.oneapi: ONEAPI_ROOT not set")

func load(name, path string) (ml.Module, error) {
	ze, err := openLoader(path)
	if err != nil {
		return nil, err
	}
	return newBackend(name, ze), nil
}

func init() {
	ml.RegisterModule(ml.ModuleXPU, func() (ml.Module, error) {
		return load(ml.ModuleXPU, libName)
	})

	ml.RegisterModule(ml.ModuleXPUOneAPI, func() (ml.Module, error) {
		root := envconfig.OneAPIRoot()
		if root == "" {
			return nil, errNoOneAPI
		}
		return load(ml.ModuleXPUOneAPI, filepath.Join(root, "lib", libName))
	})
}
