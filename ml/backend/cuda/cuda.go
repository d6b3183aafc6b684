// MODUL: cuda
// ZWECK: CUDA Backend - Geraeteabfrage, Synchronisation und Upload von Payloads
// INPUT: Keine (Hardware-Abfrage ueber den CUDA-Treiber)
// OUTPUT: ml.Accelerator und ml.Mover fuer das Backend "cuda"
// NEBENEFFEKTE: Laedt libcuda dynamisch (purego, kein CGO)
// ABHAENGIGKEITEN: driver_linux.go (Treiber-Bindings), driver_other.go (Stub)
// HINWEISE: Ohne Treiber meldet der Loader ml.ErrUnavailable

package cuda

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ollama/devicemgr/ml"
)

// ============================================================================
// driver - Abstraktion ueber die Treiber-API
// ============================================================================

// driver kapselt die benoetigten Aufrufe der CUDA Driver API.
type driver interface {
	deviceCount() (int, error)
	properties(ordinal int) (ml.DeviceInfo, error)
	synchronize(ordinal int) error
	upload(ordinal int, b []byte) (ml.Buffer, error)
}

// ============================================================================
// Backend - CUDA Capability-Modul
// ============================================================================

// Backend implementiert ml.Accelerator und ml.Mover fuer CUDA-Geraete.
type Backend struct {
	drv driver
}

// Name gibt den Modulnamen zurueck.
func (b *Backend) Name() string {
	return ml.ModuleCUDA
}

// Backend gibt ml.CUDA zurueck.
func (b *Backend) Backend() ml.Backend {
	return ml.CUDA
}

// Available prueft ob mindestens ein Geraet abfragbar ist.
func (b *Backend) Available() bool {
	if b.DeviceCount() == 0 {
		return false
	}
	_, err := b.drv.properties(0)
	return err == nil
}

// DeviceCount gibt die Anzahl sichtbarer Geraete zurueck.
func (b *Backend) DeviceCount() int {
	n, err := b.drv.deviceCount()
	if err != nil {
		return 0
	}
	return n
}

// DeviceInfo gibt die Eigenschaften des Geraets an index zurueck.
func (b *Backend) DeviceInfo(index int) (ml.DeviceInfo, error) {
	if index < 0 || index >= b.DeviceCount() {
		return ml.DeviceInfo{}, fmt.Errorf("cuda: invalid device ordinal %d", index)
	}

	info, err := b.drv.properties(index)
	if err != nil {
		return ml.DeviceInfo{}, err
	}
	info.ID = ml.IndexedID(ml.CUDA, index)
	info.Library = "CUDA"
	return info, nil
}

// Synchronize wartet auf alle ausstehenden Operationen des Geraets.
func (b *Backend) Synchronize(index int) error {
	return b.drv.synchronize(index)
}

// Move kopiert Tensoren und Modelle in den Geraetespeicher.
// Die Eingabe bleibt unveraendert, zurueckgegeben wird eine platzierte Kopie.
func (b *Backend) Move(payload any, id ml.DeviceID) (any, error) {
	switch p := payload.(type) {
	case *ml.Tensor:
		return b.uploadTensor(p, id)
	case *ml.Model:
		m := &ml.Model{Name: p.Name, Optimized: p.Optimized, Tensors: make([]*ml.Tensor, 0, len(p.Tensors))}
		for _, t := range p.Tensors {
			c, err := b.uploadTensor(t, id)
			if err != nil {
				// bereits hochgeladene Tensoren wieder freigeben
				for _, done := range m.Tensors {
					_ = done.Buffer.Free()
				}
				return nil, err
			}
			m.Tensors = append(m.Tensors, c)
		}
		return m, nil
	default:
		return nil, ml.ErrNotMovable
	}
}

func (b *Backend) uploadTensor(t *ml.Tensor, id ml.DeviceID) (*ml.Tensor, error) {
	buf, err := b.drv.upload(id.Ordinal(), t.Bytes())
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", t.Name, err)
	}

	c := t.Clone()
	c.Device = id
	c.Buffer = buf
	return c, nil
}

// ============================================================================
// Hilfsfunktionen
// ============================================================================

// check wandelt einen CUresult in einen Fehler um.
func check(op string, rc int32) error {
	if rc == 0 {
		return nil
	}
	return &ml.BackendError{Backend: ml.CUDA, Op: op, Code: int(rc)}
}

// errNoDevice wird gemeldet wenn der Treiber geladen ist, aber kein Geraet sieht.
var errNoDevice = errors.New("cuda: no devices")

// ============================================================================
// Init - Registriere CUDA-Modul beim Package-Load
// ============================================================================

// newLoader oeffnet den Treiber einmal pro Prozess. Alle Backends teilen ihn,
// damit jeder Primary Context nur einmal retained wird.
func newLoader(open func() (driver, error)) ml.Loader {
	open = sync.OnceValues(open)
	return func() (ml.Module, error) {
		drv, err := open()
		if err != nil {
			return nil, err
		}

		if n, err := drv.deviceCount(); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, errNoDevice
		}

		return &Backend{drv: drv}, nil
	}
}

func init() {
	ml.RegisterModule(ml.ModuleCUDA, newLoader(openDriver))
}
