// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - String: String-Getter
// - Uint: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// =============================================================================
// Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
// Nicht parsebare Werte gelten als gesetzt
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// String gibt eine Funktion zurueck, die einen String liest
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
func AsMap() map[string]EnvVar {
	ret := map[string]EnvVar{
		"DEVICEMGR_DEBUG":           {"DEVICEMGR_DEBUG", LogLevel(), "Show additional debug information (e.g. DEVICEMGR_DEBUG=1)"},
		"DEVICEMGR_DEVICE":          {"DEVICEMGR_DEVICE", Device(), "Preferred device, e.g. cuda:0, xpu, mps, cpu (default: auto)"},
		"DEVICEMGR_HOST":            {"DEVICEMGR_HOST", Host(), "Address of the device info server (default 127.0.0.1:11535)"},
		"DEVICEMGR_ORIGINS":         {"DEVICEMGR_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		"DEVICEMGR_NUM_THREADS":     {"DEVICEMGR_NUM_THREADS", NumThreads(), "Intra-op threads of the host backend (default: GOMAXPROCS)"},
		"DEVICEMGR_INTEROP_THREADS": {"DEVICEMGR_INTEROP_THREADS", InterOpThreads(), "Inter-op threads of the host backend (default: physical cores)"},
		"DEVICEMGR_NO_EXTENSION":    {"DEVICEMGR_NO_EXTENSION", NoExtension(), "Disable the model optimization extension"},
	}

	// macOS hat weder CUDA noch Level Zero
	if runtime.GOOS != "darwin" {
		ret["CUDA_VISIBLE_DEVICES"] = EnvVar{"CUDA_VISIBLE_DEVICES", CudaVisibleDevices(), "Set which NVIDIA devices are visible"}
		ret["ZE_AFFINITY_MASK"] = EnvVar{"ZE_AFFINITY_MASK", ZeAffinityMask(), "Set which Level Zero devices are visible"}
		ret["ONEAPI_ROOT"] = EnvVar{"ONEAPI_ROOT", OneAPIRoot(), "oneAPI installation used as standalone XPU runtime"}
	}

	return ret
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
