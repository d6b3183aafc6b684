// MODUL: metal_darwin
// ZWECK: Bindings an MTLCreateSystemDefaultDevice ueber purego
// INPUT: Metal.framework
// OUTPUT: systemDevice-Implementierung
// NEBENEFFEKTE: dlopen, Objective-C Messages

package metal

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"

	"github.com/ollama/devicemgr/ml"
)

const frameworkPath = "/System/Library/Frameworks/Metal.framework/Metal"

type mtlDevice struct {
	id objc.ID
}

func openSystemDevice() (systemDevice, error) {
	lib, err := purego.Dlopen(frameworkPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ml.ErrUnavailable, err)
	}

	var createSystemDefaultDevice func() objc.ID
	purego.RegisterLibFunc(&createSystemDefaultDevice, lib, "MTLCreateSystemDefaultDevice")

	id := createSystemDefaultDevice()
	if id == 0 {
		return nil, fmt.Errorf("%w: no system default device", ml.ErrUnavailable)
	}

	return &mtlDevice{id: id}, nil
}

func (d *mtlDevice) name() string {
	s := d.id.Send(objc.RegisterName("name"))
	if s == 0 {
		return "Apple GPU"
	}

	p := objc.Send[*byte](s, objc.RegisterName("UTF8String"))
	if p == nil {
		return "Apple GPU"
	}

	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func (d *mtlDevice) workingSetSize() uint64 {
	return objc.Send[uint64](d.id, objc.RegisterName("recommendedMaxWorkingSetSize"))
}
