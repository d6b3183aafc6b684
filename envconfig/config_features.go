// config_features.go - Thread-, Backend- und Sichtbarkeits-Variablen
//
// Dieses Modul enthaelt:
// - Thread-Einstellungen fuer das Host-Backend
// - Schalter fuer die Optimierungs-Extension
// - Pfade und Sichtbarkeit der Beschleuniger-Runtimes
package envconfig

// =============================================================================
// Thread-Einstellungen
// =============================================================================

var (
	// NumThreads setzt die Intra-Op Threads des Host-Backends
	// 0 = GOMAXPROCS
	NumThreads = Uint("DEVICEMGR_NUM_THREADS", 0)

	// InterOpThreads setzt die Inter-Op Threads des Host-Backends
	// 0 = Anzahl physischer Kerne
	InterOpThreads = Uint("DEVICEMGR_INTEROP_THREADS", 0)
)

// =============================================================================
// Feature-Flags
// =============================================================================

var (
	// NoExtension deaktiviert die Optimierungs-Extension
	NoExtension = Bool("DEVICEMGR_NO_EXTENSION")
)

// =============================================================================
// Runtime-Pfade und Sichtbarkeit
// =============================================================================

var (
	// OneAPIRoot ist das Installationsverzeichnis des oneAPI Toolkits
	OneAPIRoot = String("ONEAPI_ROOT")

	// CudaVisibleDevices steuert sichtbare NVIDIA-Geraete (wird vom Treiber ausgewertet)
	CudaVisibleDevices = String("CUDA_VISIBLE_DEVICES")

	// ZeAffinityMask steuert sichtbare Level-Zero-Geraete (wird vom Loader ausgewertet)
	ZeAffinityMask = String("ZE_AFFINITY_MASK")
)
