package device

import (
	"log/slog"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/ml"
)

// probe loads every capability module once and fills the capability flags.
// The returned modules are in runtime priority order.
func (m *Manager) probe(probe ProbeFunc) []ml.Module {
	var mods []ml.Module
	load := func(name string) (ml.Module, bool) {
		mod, ok := probe(name)
		if mod == nil {
			ok = false
		}
		m.log.Debug("probed capability module", "module", name, "present", ok)
		if ok {
			mods = append(mods, mod)
		}
		return mod, ok
	}

	_, m.caps.CUDA = load(ml.ModuleCUDA)

	// The secondary accelerator can come from the system loader or from a
	// standalone oneAPI install. Either only counts together with the
	// extension, which dispatch on that backend depends on.
	_, builtin := load(ml.ModuleXPU)
	_, standalone := load(ml.ModuleXPUOneAPI)

	if mod, ok := load(ml.ModuleExtension); ok && mod != nil {
		if ext, isExt := mod.(Extension); isExt {
			m.ext = ext
			m.caps.Extension = true
		} else {
			m.log.Warn("extension module does not implement Optimize", "module", ml.ModuleExtension)
		}
	}

	m.caps.XPU = (builtin || standalone) && m.caps.Extension
	if (builtin || standalone) && !m.caps.Extension {
		m.log.Debug("xpu runtime present without extension, skipping xpu")
	}

	_, m.caps.MPS = load(ml.ModuleMPS)
	load(ml.ModuleHost)

	return mods
}

// overrideWarnings reports visibility variables that change what the
// accelerator runtimes enumerate.
func overrideWarnings(log *slog.Logger) {
	anyFound := false
	vars := envconfig.AsMap()
	for _, k := range []string{
		"CUDA_VISIBLE_DEVICES",
		"ZE_AFFINITY_MASK",
	} {
		if e, found := vars[k]; found && e.Value != "" {
			anyFound = true
			log.Warn("user overrode visible devices", k, e.Value)
		}
	}
	if anyFound {
		log.Warn("if devices are not correctly discovered, unset and try again")
	}
}
