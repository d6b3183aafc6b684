//go:build !linux && !darwin

package sysinfo

func totalMemory() uint64 { return 0 }

func osCPUBrand() string { return "" }
