//go:build linux && (amd64 || arm64)

package levelzero

import (
	"testing"
	"unsafe"
)

func TestStructLayout(t *testing.T) {
	var props deviceProperties
	if got := unsafe.Sizeof(props); got != 368 {
		t.Errorf("ze_device_properties_t: erwartet 368 Bytes, bekommen %d", got)
	}
	if got := unsafe.Offsetof(props.name); got != 112 {
		t.Errorf("ze_device_properties_t.name: erwartet Offset 112, bekommen %d", got)
	}

	var mem memoryProperties
	if got := unsafe.Offsetof(mem.totalSize); got != 32 {
		t.Errorf("ze_device_memory_properties_t.totalSize: erwartet Offset 32, bekommen %d", got)
	}
}
