// MODUL: driver_linux
// ZWECK: Bindings an die CUDA Driver API ueber purego
// INPUT: libcuda.so.1 aus dem Bibliothekspfad
// OUTPUT: driver-Implementierung
// NEBENEFFEKTE: dlopen, cuInit, Retain der Primary Contexts
// HINWEISE: Sichtbarkeit der Geraete steuert der Treiber (CUDA_VISIBLE_DEVICES)

//go:build linux && (amd64 || arm64)

package cuda

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/ollama/devicemgr/ml"
)

const libName = "libcuda.so.1"

// CUdevice_attribute
const (
	attrMultiprocessorCount    = 16
	attrIntegrated             = 18
	attrPCIBusID               = 33
	attrPCIDeviceID            = 34
	attrPCIDomainID            = 50
	attrComputeCapabilityMajor = 75
	attrComputeCapabilityMinor = 76
)

type cudaDriver struct {
	mu   sync.Mutex
	ctxs map[int]uintptr

	cuDeviceGetCount         func(count *int32) int32
	cuDeviceGet              func(dev *int32, ordinal int32) int32
	cuDeviceGetName          func(name *byte, length int32, dev int32) int32
	cuDeviceTotalMem         func(bytes *uintptr, dev int32) int32
	cuDeviceGetAttribute     func(pi *int32, attrib int32, dev int32) int32
	cuDriverGetVersion       func(version *int32) int32
	cuDevicePrimaryCtxRetain func(pctx *uintptr, dev int32) int32
	cuCtxPushCurrent         func(ctx uintptr) int32
	cuCtxPopCurrent          func(pctx *uintptr) int32
	cuCtxSynchronize         func() int32
	cuMemAlloc               func(dptr *uintptr, size uintptr) int32
	cuMemcpyHtoD             func(dst uintptr, src unsafe.Pointer, size uintptr) int32
	cuMemFree                func(dptr uintptr) int32
}

func openDriver() (driver, error) {
	lib, err := purego.Dlopen(libName, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ml.ErrUnavailable, err)
	}

	d := &cudaDriver{ctxs: make(map[int]uintptr)}

	var cuInit func(flags uint32) int32
	for _, sym := range []struct {
		fptr any
		name string
	}{
		{&cuInit, "cuInit"},
		{&d.cuDeviceGetCount, "cuDeviceGetCount"},
		{&d.cuDeviceGet, "cuDeviceGet"},
		{&d.cuDeviceGetName, "cuDeviceGetName"},
		{&d.cuDeviceTotalMem, "cuDeviceTotalMem_v2"},
		{&d.cuDeviceGetAttribute, "cuDeviceGetAttribute"},
		{&d.cuDriverGetVersion, "cuDriverGetVersion"},
		{&d.cuDevicePrimaryCtxRetain, "cuDevicePrimaryCtxRetain"},
		{&d.cuCtxPushCurrent, "cuCtxPushCurrent_v2"},
		{&d.cuCtxPopCurrent, "cuCtxPopCurrent_v2"},
		{&d.cuCtxSynchronize, "cuCtxSynchronize"},
		{&d.cuMemAlloc, "cuMemAlloc_v2"},
		{&d.cuMemcpyHtoD, "cuMemcpyHtoD_v2"},
		{&d.cuMemFree, "cuMemFree_v2"},
	} {
		addr, err := purego.Dlsym(lib, sym.name)
		if err != nil {
			purego.Dlclose(lib)
			return nil, fmt.Errorf("%w: %s: %v", ml.ErrUnavailable, sym.name, err)
		}
		purego.RegisterFunc(sym.fptr, addr)
	}

	if err := check("cuInit", cuInit(0)); err != nil {
		purego.Dlclose(lib)
		return nil, err
	}

	return d, nil
}

func (d *cudaDriver) deviceCount() (int, error) {
	var n int32
	if err := check("cuDeviceGetCount", d.cuDeviceGetCount(&n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *cudaDriver) device(ordinal int) (int32, error) {
	var dev int32
	if err := check("cuDeviceGet", d.cuDeviceGet(&dev, int32(ordinal))); err != nil {
		return 0, err
	}
	return dev, nil
}

func (d *cudaDriver) attribute(dev, attr int32) int {
	var v int32
	if d.cuDeviceGetAttribute(&v, attr, dev) != 0 {
		return -1
	}
	return int(v)
}

func (d *cudaDriver) properties(ordinal int) (ml.DeviceInfo, error) {
	dev, err := d.device(ordinal)
	if err != nil {
		return ml.DeviceInfo{}, err
	}

	var name [256]byte
	if err := check("cuDeviceGetName", d.cuDeviceGetName(&name[0], int32(len(name)), dev)); err != nil {
		return ml.DeviceInfo{}, err
	}

	var total uintptr
	if err := check("cuDeviceTotalMem", d.cuDeviceTotalMem(&total, dev)); err != nil {
		return ml.DeviceInfo{}, err
	}

	info := ml.DeviceInfo{
		Name:                cstring(name[:]),
		TotalMemory:         uint64(total),
		ComputeMajor:        d.attribute(dev, attrComputeCapabilityMajor),
		ComputeMinor:        d.attribute(dev, attrComputeCapabilityMinor),
		MultiProcessorCount: max(d.attribute(dev, attrMultiprocessorCount), 0),
		Integrated:          d.attribute(dev, attrIntegrated) == 1,
	}

	if domain, bus, slot := d.attribute(dev, attrPCIDomainID), d.attribute(dev, attrPCIBusID), d.attribute(dev, attrPCIDeviceID); domain >= 0 && bus >= 0 && slot >= 0 {
		info.PCIID = fmt.Sprintf("%04x:%02x:%02x", domain, bus, slot)
	}

	var version int32
	if d.cuDriverGetVersion(&version) == 0 {
		info.DriverMajor = int(version / 1000)
		info.DriverMinor = int(version%1000) / 10
	}

	return info, nil
}

// context gibt den Primary Context des Geraets zurueck und legt ihn bei Bedarf an.
func (d *cudaDriver) context(ordinal int) (uintptr, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ctx, ok := d.ctxs[ordinal]; ok {
		return ctx, nil
	}

	dev, err := d.device(ordinal)
	if err != nil {
		return 0, err
	}

	var ctx uintptr
	if err := check("cuDevicePrimaryCtxRetain", d.cuDevicePrimaryCtxRetain(&ctx, dev)); err != nil {
		return 0, err
	}
	d.ctxs[ordinal] = ctx
	return ctx, nil
}

// withContext fuehrt fn mit dem Context des Geraets auf dem aktuellen OS-Thread aus.
func (d *cudaDriver) withContext(ordinal int, fn func() error) error {
	ctx, err := d.context(ordinal)
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := check("cuCtxPushCurrent", d.cuCtxPushCurrent(ctx)); err != nil {
		return err
	}
	defer func() {
		var popped uintptr
		d.cuCtxPopCurrent(&popped)
	}()

	return fn()
}

func (d *cudaDriver) synchronize(ordinal int) error {
	return d.withContext(ordinal, func() error {
		return check("cuCtxSynchronize", d.cuCtxSynchronize())
	})
}

func (d *cudaDriver) upload(ordinal int, b []byte) (ml.Buffer, error) {
	buf := &deviceBuffer{drv: d, ordinal: ordinal, size: uint64(len(b))}
	if len(b) == 0 {
		return buf, nil
	}

	err := d.withContext(ordinal, func() error {
		if err := check("cuMemAlloc", d.cuMemAlloc(&buf.ptr, uintptr(len(b)))); err != nil {
			return err
		}
		if err := check("cuMemcpyHtoD", d.cuMemcpyHtoD(buf.ptr, unsafe.Pointer(&b[0]), uintptr(len(b)))); err != nil {
			d.cuMemFree(buf.ptr)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buf, nil
}

// deviceBuffer ist eine Allokation im Geraetespeicher.
type deviceBuffer struct {
	drv     *cudaDriver
	ordinal int
	ptr     uintptr
	size    uint64
}

func (b *deviceBuffer) Size() uint64 {
	return b.size
}

func (b *deviceBuffer) Free() error {
	if b.ptr == 0 {
		return nil
	}

	ptr := b.ptr
	b.ptr = 0
	return b.drv.withContext(b.ordinal, func() error {
		return check("cuMemFree", b.drv.cuMemFree(ptr))
	})
}

// cstring schneidet einen NUL-terminierten C-String ab.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
