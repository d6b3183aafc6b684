// MODUL: ze_other
// ZWECK: Stub fuer Plattformen ohne Level Zero Loader

//go:build !linux || !(amd64 || arm64)

package levelzero

import "github.com/ollama/devicemgr/ml"

func openLoader(string) (loader, error) {
	return nil, ml.ErrUnavailable
}
