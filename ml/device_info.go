// device_info.go
// Dieses Modul enthaelt die DeviceInfo- und SystemInfo-Strukturen, die
// Backends fuer die Geraeteliste liefern.

package ml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ollama/devicemgr/format"
)

type DeviceInfo struct {
	ID DeviceID `json:"id"`

	// Name is the name of the device as labeled by the backend
	Name string `json:"name"`

	// Library is the runtime that reported the device (e.g. CUDA, Level Zero, Metal)
	Library string `json:"library"`

	// Integrated is set true for integrated GPUs, false for Discrete GPUs
	Integrated bool `json:"integrated,omitempty"`

	// PCIID is the domain, bus and device ID of the device
	PCIID string `json:"pci_id,omitempty"`

	// VendorID and ProductID as reported by the backend, 0 if unknown
	VendorID  uint32 `json:"vendor_id,omitempty"`
	ProductID uint32 `json:"product_id,omitempty"`

	// TotalMemory is the total amount of memory on the device
	TotalMemory uint64 `json:"total_memory"`

	// ComputeMajor is the major version of capabilities of the device
	// if unsupported by the backend, -1 will be returned
	ComputeMajor int `json:"compute_major"`

	// ComputeMinor is the minor version of capabilities of the device
	// if unsupported by the backend, -1 will be returned
	ComputeMinor int `json:"compute_minor"`

	// MultiProcessorCount is the number of SMs on CUDA or EUs on Level Zero devices
	MultiProcessorCount int `json:"multi_processor_count,omitempty"`

	// Driver Information
	DriverMajor int `json:"driver_major,omitempty"`
	DriverMinor int `json:"driver_minor,omitempty"`
}

func (d DeviceInfo) Compute() string {
	if d.ComputeMajor < 0 {
		return "unknown"
	}
	return strconv.Itoa(d.ComputeMajor) + "." + strconv.Itoa(d.ComputeMinor)
}

func (d DeviceInfo) Driver() string {
	return strconv.Itoa(d.DriverMajor) + "." + strconv.Itoa(d.DriverMinor)
}

// String renders the properties record printed by the device listing, e.g.
// _CudaDeviceProperties(name='NVIDIA A10', major=8, minor=6, total_memory=22515MB, multi_processor_count=72)
func (d DeviceInfo) String() string {
	var sb strings.Builder
	switch d.ID.Backend {
	case CUDA:
		sb.WriteString("_CudaDeviceProperties(")
	case XPU:
		sb.WriteString("_XpuDeviceProperties(")
	case MPS, CPU:
		sb.WriteString("_DeviceProperties(")
	}

	fmt.Fprintf(&sb, "name='%s'", d.Name)
	if d.ComputeMajor >= 0 {
		fmt.Fprintf(&sb, ", major=%d, minor=%d", d.ComputeMajor, d.ComputeMinor)
	}
	fmt.Fprintf(&sb, ", total_memory=%dMB", format.MiB(d.TotalMemory))
	if d.MultiProcessorCount > 0 {
		fmt.Fprintf(&sb, ", multi_processor_count=%d", d.MultiProcessorCount)
	}
	sb.WriteString(")")
	return sb.String()
}

// SystemInfo describes the host CPU entry of the device list.
type SystemInfo struct {
	// CPUName is the CPU model name
	CPUName string `json:"cpu_name"`

	// TotalMemory is the total amount of system memory
	TotalMemory uint64 `json:"total_memory"`

	// ThreadCount is the number of intra-op threads used on the CPU
	ThreadCount int `json:"threads"`

	// InterOpThreads is the number of inter-op threads used on the CPU
	InterOpThreads int `json:"interop_threads"`
}

func (s SystemInfo) String() string {
	return fmt.Sprintf("name='%s', total_memory=%dMB, threads=%d, interop_threads=%d",
		s.CPUName, format.MiB(s.TotalMemory), s.ThreadCount, s.InterOpThreads)
}
