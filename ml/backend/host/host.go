// MODUL: host
// ZWECK: CPU-Backend, das immer verfuegbar ist und die Thread-Konfiguration liefert
// INPUT: DEVICEMGR_NUM_THREADS, DEVICEMGR_INTEROP_THREADS
// OUTPUT: ml.Accelerator und ml.Host fuer das Backend "cpu"
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: gonum (Live-Check), sysinfo, envconfig
// HINWEISE: Registriert sich beim Package-Load unter ml.ModuleHost

package host

import (
	"errors"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/ml"
	"github.com/ollama/devicemgr/sysinfo"
)

// ============================================================================
// Backend - CPU Capability-Modul
// ============================================================================

// Backend implementiert ml.Accelerator und ml.Host fuer die CPU.
type Backend struct {
	sys sysinfo.Host
}

// New erstellt ein neues CPU-Backend.
func New() *Backend {
	return &Backend{}
}

// Name gibt den Modulnamen zurueck.
func (b *Backend) Name() string {
	return ml.ModuleHost
}

// Backend gibt ml.CPU zurueck.
func (b *Backend) Backend() ml.Backend {
	return ml.CPU
}

// Available fuehrt eine kleine Matrixmultiplikation als Live-Check aus.
func (b *Backend) Available() bool {
	return smoke() == nil
}

// DeviceCount gibt immer 1 zurueck.
func (b *Backend) DeviceCount() int {
	return 1
}

// DeviceInfo beschreibt die CPU als Geraet.
func (b *Backend) DeviceInfo(index int) (ml.DeviceInfo, error) {
	if index != 0 {
		return ml.DeviceInfo{}, &ml.BackendError{Backend: ml.CPU, Op: "device_info", Code: index}
	}
	return ml.DeviceInfo{
		ID:                  ml.BareID(ml.CPU),
		Name:                b.sys.CPUBrand(),
		Library:             "cpu",
		TotalMemory:         b.sys.TotalMemory(),
		ComputeMajor:        -1,
		ComputeMinor:        -1,
		MultiProcessorCount: sysinfo.PhysicalCores(),
	}, nil
}

// Synchronize ist auf der CPU ein No-Op.
func (b *Backend) Synchronize(int) error {
	return nil
}

// ThreadCounts gibt Intra-Op und Inter-Op Threads zurueck.
// Konfigurierbar via DEVICEMGR_NUM_THREADS und DEVICEMGR_INTEROP_THREADS
func (b *Backend) ThreadCounts() (intraOp, interOp int) {
	intraOp = int(envconfig.NumThreads())
	if intraOp <= 0 {
		intraOp = runtime.GOMAXPROCS(0)
	}

	interOp = int(envconfig.InterOpThreads())
	if interOp <= 0 {
		interOp = sysinfo.PhysicalCores()
	}

	return intraOp, interOp
}

// ============================================================================
// Hilfsfunktionen
// ============================================================================

var errSmoke = errors.New("host: smoke multiplication returned a wrong result")

// smoke multipliziert eine 2x2 Matrix mit der Einheitsmatrix.
func smoke() error {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	var c mat.Dense
	c.Mul(a, mat.NewDiagDense(2, []float64{1, 1}))
	if !mat.Equal(a, &c) {
		return errSmoke
	}
	return nil
}

// ============================================================================
// Init - Registriere CPU-Modul beim Package-Load
// ============================================================================

func init() {
	ml.RegisterModule(ml.ModuleHost, func() (ml.Module, error) {
		return New(), nil
	})
}
