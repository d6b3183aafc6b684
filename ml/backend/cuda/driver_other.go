// MODUL: driver_other
// ZWECK: Stub fuer Plattformen ohne CUDA-Treiber
// HINWEISE: Wird kompiliert wenn nicht Linux auf amd64/arm64

//go:build !linux || !(amd64 || arm64)

package cuda

import "github.com/ollama/devicemgr/ml"

func openDriver() (driver, error) {
	return nil, ml.ErrUnavailable
}
