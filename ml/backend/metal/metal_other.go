// MODUL: metal_other
// ZWECK: Stub fuer Plattformen ohne Metal

//go:build !darwin

package metal

import "github.com/ollama/devicemgr/ml"

func openSystemDevice() (systemDevice, error) {
	return nil, ml.ErrUnavailable
}
