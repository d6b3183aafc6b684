// MODUL: ze_linux
// ZWECK: Bindings an die Level Zero Core API ueber purego
// INPUT: Pfad zum Loader
// OUTPUT: loader-Implementierung
// NEBENEFFEKTE: dlopen, zeInit
// HINWEISE: Sichtbarkeit der Geraete steuert der Loader (ZE_AFFINITY_MASK)

//go:build linux && (amd64 || arm64)

package levelzero

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/ollama/devicemgr/ml"
)

const (
	initFlagGPUOnly = 1

	structureTypeDeviceProperties       = 0x3
	structureTypeDeviceMemoryProperties = 0x7

	deviceTypeGPU            = 1
	devicePropertyIntegrated = 1 << 0
)

// deviceProperties entspricht ze_device_properties_t.
type deviceProperties struct {
	stype                    uint32
	pNext                    uintptr
	deviceType               uint32
	vendorID                 uint32
	deviceID                 uint32
	flags                    uint32
	subdeviceID              uint32
	coreClockRate            uint32
	maxMemAllocSize          uint64
	maxHardwareContexts      uint32
	maxCommandQueuePriority  uint32
	numThreadsPerEU          uint32
	physicalEUSimdWidth      uint32
	numEUsPerSubslice        uint32
	numSubslicesPerSlice     uint32
	numSlices                uint32
	timerResolution          uint64
	timestampValidBits       uint32
	kernelTimestampValidBits uint32
	uuid                     [16]byte
	name                     [256]byte
}

// memoryProperties entspricht ze_device_memory_properties_t.
type memoryProperties struct {
	stype        uint32
	pNext        uintptr
	flags        uint32
	maxClockRate uint32
	maxBusWidth  uint32
	totalSize    uint64
	name         [256]byte
}

type zeLoader struct {
	zeDriverGet                 func(count *uint32, drivers *uintptr) int32
	zeDeviceGet                 func(driver uintptr, count *uint32, devices *uintptr) int32
	zeDeviceGetProperties       func(device uintptr, props unsafe.Pointer) int32
	zeDeviceGetMemoryProperties func(device uintptr, count *uint32, props unsafe.Pointer) int32
}

func openLoader(path string) (loader, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ml.ErrUnavailable, err)
	}

	ze := &zeLoader{}

	var zeInit func(flags uint32) int32
	for _, sym := range []struct {
		fptr any
		name string
	}{
		{&zeInit, "zeInit"},
		{&ze.zeDriverGet, "zeDriverGet"},
		{&ze.zeDeviceGet, "zeDeviceGet"},
		{&ze.zeDeviceGetProperties, "zeDeviceGetProperties"},
		{&ze.zeDeviceGetMemoryProperties, "zeDeviceGetMemoryProperties"},
	} {
		addr, err := purego.Dlsym(lib, sym.name)
		if err != nil {
			purego.Dlclose(lib)
			return nil, fmt.Errorf("%w: %s: %v", ml.ErrUnavailable, sym.name, err)
		}
		purego.RegisterFunc(sym.fptr, addr)
	}

	if rc := zeInit(initFlagGPUOnly); rc != 0 {
		purego.Dlclose(lib)
		return nil, &ml.BackendError{Backend: ml.XPU, Op: "zeInit", Code: int(rc)}
	}

	return ze, nil
}

// handles ruft eine zweistufige Count/Fill-Abfrage auf.
func handles(op string, get func(count *uint32, out *uintptr) int32) ([]uintptr, error) {
	var n uint32
	if rc := get(&n, nil); rc != 0 {
		return nil, &ml.BackendError{Backend: ml.XPU, Op: op, Code: int(rc)}
	}
	if n == 0 {
		return nil, nil
	}

	hs := make([]uintptr, n)
	if rc := get(&n, &hs[0]); rc != 0 {
		return nil, &ml.BackendError{Backend: ml.XPU, Op: op, Code: int(rc)}
	}
	return hs[:n], nil
}

func (ze *zeLoader) devices() ([]ml.DeviceInfo, error) {
	drivers, err := handles("zeDriverGet", ze.zeDriverGet)
	if err != nil {
		return nil, err
	}

	var infos []ml.DeviceInfo
	for _, drv := range drivers {
		devs, err := handles("zeDeviceGet", func(count *uint32, out *uintptr) int32 {
			return ze.zeDeviceGet(drv, count, out)
		})
		if err != nil {
			return nil, err
		}

		for _, dev := range devs {
			props := deviceProperties{stype: structureTypeDeviceProperties}
			if rc := ze.zeDeviceGetProperties(dev, unsafe.Pointer(&props)); rc != 0 {
				return nil, &ml.BackendError{Backend: ml.XPU, Op: "zeDeviceGetProperties", Code: int(rc)}
			}
			if props.deviceType != deviceTypeGPU {
				continue
			}

			infos = append(infos, ml.DeviceInfo{
				Name:                cstring(props.name[:]),
				VendorID:            props.vendorID,
				ProductID:           props.deviceID,
				Integrated:          props.flags&devicePropertyIntegrated != 0,
				TotalMemory:         ze.totalMemory(dev),
				MultiProcessorCount: int(props.numSlices * props.numSubslicesPerSlice * props.numEUsPerSubslice),
			})
		}
	}

	return infos, nil
}

func (ze *zeLoader) totalMemory(dev uintptr) uint64 {
	var n uint32
	if ze.zeDeviceGetMemoryProperties(dev, &n, nil) != 0 || n == 0 {
		return 0
	}

	props := make([]memoryProperties, n)
	for i := range props {
		props[i].stype = structureTypeDeviceMemoryProperties
	}
	if ze.zeDeviceGetMemoryProperties(dev, &n, unsafe.Pointer(&props[0])) != 0 {
		return 0
	}

	var total uint64
	for _, p := range props[:n] {
		total += p.totalSize
	}
	return total
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
