// MODUL: cuda_test
// ZWECK: Unit-Tests fuer das CUDA-Backend mit einem Fake-Treiber
// HINWEISE: Benoetigt keine GPU

package cuda

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ollama/devicemgr/ml"
)

// ============================================================================
// Fake-Treiber
// ============================================================================

type fakeBuffer struct {
	size  uint64
	freed bool
}

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Free() error  { b.freed = true; return nil }

type fakeDriver struct {
	devices   []ml.DeviceInfo
	synced    []int
	uploads   []*fakeBuffer
	failAfter int
}

func (d *fakeDriver) deviceCount() (int, error) {
	return len(d.devices), nil
}

func (d *fakeDriver) properties(ordinal int) (ml.DeviceInfo, error) {
	return d.devices[ordinal], nil
}

func (d *fakeDriver) synchronize(ordinal int) error {
	d.synced = append(d.synced, ordinal)
	return nil
}

func (d *fakeDriver) upload(_ int, b []byte) (ml.Buffer, error) {
	if d.failAfter > 0 && len(d.uploads) >= d.failAfter {
		return nil, &ml.BackendError{Backend: ml.CUDA, Op: "cuMemAlloc", Code: 2}
	}
	buf := &fakeBuffer{size: uint64(len(b))}
	d.uploads = append(d.uploads, buf)
	return buf, nil
}

func TestLoaderSharesDriver(t *testing.T) {
	opened := 0
	drv := newFake()
	load := newLoader(func() (driver, error) {
		opened++
		return drv, nil
	})

	first, err := load()
	if err != nil {
		t.Fatal(err)
	}
	second, err := load()
	if err != nil {
		t.Fatal(err)
	}

	if opened != 1 {
		t.Errorf("Treiber %d mal geoeffnet, erwartet 1", opened)
	}
	if first.(*Backend).drv != second.(*Backend).drv {
		t.Error("Backends teilen sich nicht denselben Treiber")
	}
}

func TestLoaderErrors(t *testing.T) {
	if _, err := newLoader(func() (driver, error) { return nil, ml.ErrUnavailable })(); !errors.Is(err, ml.ErrUnavailable) {
		t.Errorf("erwartet ErrUnavailable, bekommen %v", err)
	}

	empty := &fakeDriver{}
	if _, err := newLoader(func() (driver, error) { return empty, nil })(); !errors.Is(err, errNoDevice) {
		t.Errorf("erwartet errNoDevice, bekommen %v", err)
	}
}

func newFake() *fakeDriver {
	return &fakeDriver{devices: []ml.DeviceInfo{
		{Name: "NVIDIA A10", TotalMemory: 24 << 30, ComputeMajor: 8, ComputeMinor: 6, MultiProcessorCount: 72},
		{Name: "NVIDIA T4", TotalMemory: 16 << 30, ComputeMajor: 7, ComputeMinor: 5, MultiProcessorCount: 40},
	}}
}

// ============================================================================
// Tests
// ============================================================================

func TestDeviceInfo(t *testing.T) {
	b := &Backend{drv: newFake()}

	if !b.Available() {
		t.Fatal("Available: erwartet true")
	}
	if b.DeviceCount() != 2 {
		t.Fatalf("DeviceCount: erwartet 2, bekommen %d", b.DeviceCount())
	}

	info, err := b.DeviceInfo(1)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != ml.IndexedID(ml.CUDA, 1) || info.Library != "CUDA" || info.Name != "NVIDIA T4" {
		t.Errorf("DeviceInfo(1): unerwartet %+v", info)
	}

	if _, err := b.DeviceInfo(2); err == nil {
		t.Error("DeviceInfo(2): Fehler erwartet")
	}
}

func TestAvailableWithoutDevices(t *testing.T) {
	b := &Backend{drv: &fakeDriver{}}
	if b.Available() {
		t.Error("Available: erwartet false ohne Geraete")
	}
}

func TestSynchronize(t *testing.T) {
	drv := newFake()
	b := &Backend{drv: drv}

	if err := b.Synchronize(1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1}, drv.synced); diff != "" {
		t.Errorf("synchronize (-want +got):\n%s", diff)
	}
}

func TestMoveModel(t *testing.T) {
	drv := newFake()
	b := &Backend{drv: drv}

	in := &ml.Model{Name: "m", Tensors: []*ml.Tensor{
		ml.NewTensor("w", []float32{1, 2, 3, 4}, 2, 2),
		ml.NewTensor("b", []float32{1, 2}, 2),
	}}

	out, err := b.Move(in, ml.BareID(ml.CUDA))
	if err != nil {
		t.Fatal(err)
	}

	m := out.(*ml.Model)
	if m.Device() != ml.BareID(ml.CUDA) {
		t.Errorf("Device: erwartet cuda, bekommen %s", m.Device())
	}
	if m.Tensors[0].Buffer.Size() != 16 || m.Tensors[1].Buffer.Size() != 8 {
		t.Errorf("Buffer-Groessen unerwartet: %d %d", m.Tensors[0].Buffer.Size(), m.Tensors[1].Buffer.Size())
	}
	if in.Device() != ml.BareID(ml.CPU) || in.Tensors[0].Buffer != nil {
		t.Error("Eingabe wurde veraendert")
	}
}

func TestMoveModelFreesOnError(t *testing.T) {
	drv := newFake()
	drv.failAfter = 1
	b := &Backend{drv: drv}

	in := &ml.Model{Tensors: []*ml.Tensor{
		ml.NewTensor("a", []float32{1}, 1),
		ml.NewTensor("b", []float32{2}, 1),
	}}

	_, err := b.Move(in, ml.IndexedID(ml.CUDA, 0))
	var be *ml.BackendError
	if !errors.As(err, &be) || be.Op != "cuMemAlloc" {
		t.Fatalf("erwartet BackendError, bekommen %v", err)
	}
	if !drv.uploads[0].freed {
		t.Error("erster Upload wurde nicht freigegeben")
	}
}

func TestMoveUnknownPayload(t *testing.T) {
	b := &Backend{drv: newFake()}
	if _, err := b.Move("text", ml.IndexedID(ml.CUDA, 0)); !errors.Is(err, ml.ErrNotMovable) {
		t.Errorf("erwartet ErrNotMovable, bekommen %v", err)
	}
}

func TestCheck(t *testing.T) {
	if err := check("cuInit", 0); err != nil {
		t.Errorf("check(0): erwartet nil, bekommen %v", err)
	}
	if err := check("cuInit", 100); err == nil || err.Error() != "cuda: cuInit failed (code 100)" {
		t.Errorf("check(100): unerwartet %v", err)
	}
}
