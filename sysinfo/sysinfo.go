// Package sysinfo reports host memory and CPU identification.
package sysinfo

import (
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Host reads system information from the running machine.
type Host struct{}

// TotalMemory returns the physical memory in bytes, 0 if unknown.
func (Host) TotalMemory() uint64 {
	return totalMemory()
}

// CPUBrand returns the CPU model name. cpuid reports an empty brand on
// most arm64 systems, so the OS is asked next.
func (Host) CPUBrand() string {
	if brand := strings.TrimSpace(cpuid.CPU.BrandName); brand != "" {
		return brand
	}
	if brand := osCPUBrand(); brand != "" {
		return brand
	}
	return runtime.GOARCH
}

// PhysicalCores returns the number of physical cores, at least 1.
func PhysicalCores() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return max(runtime.NumCPU(), 1)
}

// SupportsBF16 reports whether the CPU has native bfloat16 instructions.
func SupportsBF16() bool {
	return cpuid.CPU.Supports(cpuid.AVX512BF16) || cpuid.CPU.Supports(cpuid.AMXBF16)
}
