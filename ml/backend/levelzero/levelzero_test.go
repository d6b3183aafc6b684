// MODUL: levelzero_test
// ZWECK: Unit-Tests fuer das XPU-Backend mit einem Fake-Loader

package levelzero

import (
	"errors"
	"testing"

	"github.com/ollama/devicemgr/ml"
)

type fakeLoader struct {
	infos []ml.DeviceInfo
	err   error
	calls int
}

func (f *fakeLoader) devices() ([]ml.DeviceInfo, error) {
	f.calls++
	return f.infos, f.err
}

func TestBackend(t *testing.T) {
	ze := &fakeLoader{infos: []ml.DeviceInfo{
		{Name: "Intel(R) Data Center GPU Max 1100", TotalMemory: 48 << 30, MultiProcessorCount: 448},
	}}
	b := newBackend(ml.ModuleXPU, ze)

	if b.Name() != "xpu" || b.Backend() != ml.XPU {
		t.Fatalf("unerwartete Identitaet %s/%s", b.Name(), b.Backend())
	}
	if !b.Available() || b.DeviceCount() != 1 {
		t.Fatal("erwartet ein verfuegbares Geraet")
	}

	info, err := b.DeviceInfo(0)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != ml.IndexedID(ml.XPU, 0) || info.Library != "Level Zero" || info.Compute() != "unknown" {
		t.Errorf("DeviceInfo(0): unerwartet %+v", info)
	}

	if _, err := b.DeviceInfo(1); err == nil {
		t.Error("DeviceInfo(1): Fehler erwartet")
	}
	if err := b.Synchronize(0); err != nil {
		t.Errorf("Synchronize: erwartet nil, bekommen %v", err)
	}
	if ze.calls != 1 {
		t.Errorf("Loader sollte einmal abgefragt werden, %d Aufrufe", ze.calls)
	}
}

func TestBackendLoaderError(t *testing.T) {
	b := newBackend(ml.ModuleXPUOneAPI, &fakeLoader{err: errors.New("zeDriverGet failed")})

	if b.Available() {
		t.Error("Available: erwartet false bei Loader-Fehler")
	}
	if b.DeviceCount() != 0 {
		t.Errorf("DeviceCount: erwartet 0, bekommen %d", b.DeviceCount())
	}
}

func TestOneAPIRequiresRoot(t *testing.T) {
	t.Setenv("ONEAPI_ROOT", "")
	if _, ok := ml.Probe(ml.ModuleXPUOneAPI); ok {
		t.Error("xpu.oneapi: ohne ONEAPI_ROOT nicht ladbar")
	}

	t.Setenv("ONEAPI_ROOT", t.TempDir())
	if _, ok := ml.Probe(ml.ModuleXPUOneAPI); ok {
		t.Error("xpu.oneapi: ohne Loader im Verzeichnis nicht ladbar")
	}
}
