// types.go - Datentypen und Konstanten fuer Payloads
// Dieses Modul definiert DType und die Namen der Capability-Module.
package ml

// DType represents the data type of tensor elements.
type DType int

const (
	DTypeOther DType = iota
	DTypeF32
	DTypeF16
	DTypeBF16
)

func (d DType) String() string {
	switch d {
	case DTypeF32:
		return "f32"
	case DTypeF16:
		return "f16"
	case DTypeBF16:
		return "bf16"
	default:
		return "other"
	}
}

// Size returns the number of bytes per element
func (d DType) Size() int {
	switch d {
	case DTypeF32:
		return 4
	case DTypeF16, DTypeBF16:
		return 2
	default:
		return 0
	}
}

// Names of the capability modules probed at startup.
const (
	// ModuleCUDA is the primary accelerator runtime
	ModuleCUDA = "cuda"

	// ModuleXPU is the secondary accelerator runtime found on the system library path
	ModuleXPU = "xpu"

	// ModuleXPUOneAPI is the secondary accelerator runtime shipped with a standalone oneAPI install
	ModuleXPUOneAPI = "xpu.oneapi"

	// ModuleExtension is the vendor model optimization extension
	ModuleExtension = "ext"

	// ModuleMPS is the on-board GPU backend
	ModuleMPS = "mps"

	// ModuleHost is the CPU backend, always present
	ModuleHost = "cpu"
)
