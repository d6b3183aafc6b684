// MODUL: metal
// ZWECK: On-board GPU Backend (Metal Performance Shaders) fuer macOS
// INPUT: Keine (Abfrage des Systemgeraets)
// OUTPUT: ml.Accelerator fuer das Backend "mps"
// NEBENEFFEKTE: Laedt das Metal Framework dynamisch (purego)
// ABHAENGIGKEITEN: metal_darwin.go (Bindings), metal_other.go (Stub)
// HINWEISE: Genau ein Geraet ohne Index; Synchronize ist ein No-Op

package metal

import (
	"fmt"

	"github.com/ollama/devicemgr/ml"
)

// ============================================================================
// Backend - MPS Capability-Modul
// ============================================================================

// systemDevice beschreibt das Standard-Metal-Geraet.
type systemDevice interface {
	name() string
	workingSetSize() uint64
}

// Backend implementiert ml.Accelerator fuer das On-board Geraet.
type Backend struct {
	dev systemDevice
}

// Name gibt den Modulnamen zurueck.
func (b *Backend) Name() string {
	return ml.ModuleMPS
}

// Backend gibt ml.MPS zurueck.
func (b *Backend) Backend() ml.Backend {
	return ml.MPS
}

// Available ist true sobald ein Systemgeraet existiert.
func (b *Backend) Available() bool {
	return b.dev != nil
}

// DeviceCount gibt 1 zurueck.
func (b *Backend) DeviceCount() int {
	return 1
}

// DeviceInfo beschreibt das Systemgeraet.
func (b *Backend) DeviceInfo(index int) (ml.DeviceInfo, error) {
	if index != 0 {
		return ml.DeviceInfo{}, fmt.Errorf("mps: invalid device ordinal %d", index)
	}

	return ml.DeviceInfo{
		ID:           ml.BareID(ml.MPS),
		Name:         b.dev.name(),
		Library:      "Metal",
		Integrated:   true,
		TotalMemory:  b.dev.workingSetSize(),
		ComputeMajor: -1,
		ComputeMinor: -1,
	}, nil
}

// Synchronize ist ein No-Op.
func (b *Backend) Synchronize(int) error {
	return nil
}

// ============================================================================
// Init - Registriere MPS-Modul beim Package-Load
// ============================================================================

func init() {
	ml.RegisterModule(ml.ModuleMPS, func() (ml.Module, error) {
		dev, err := openSystemDevice()
		if err != nil {
			return nil, err
		}
		return &Backend{dev: dev}, nil
	})
}
