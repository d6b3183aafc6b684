//go:build !noext

package ext

import (
	"errors"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/ml"
	"github.com/ollama/devicemgr/sysinfo"
)

var errDisabled = errors.New("ext: disabled by DEVICEMGR_NO_EXTENSION")

func init() {
	ml.RegisterModule(ml.ModuleExtension, func() (ml.Module, error) {
		if envconfig.NoExtension() {
			return nil, errDisabled
		}
		return New(sysinfo.SupportsBF16()), nil
	})
}
