package sysinfo

import "golang.org/x/sys/unix"

func totalMemory() uint64 {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return n
}

func osCPUBrand() string {
	brand, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return ""
	}
	return brand
}
