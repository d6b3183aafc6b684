package device

import (
	"fmt"

	"github.com/ollama/devicemgr/ml"
)

// StageModel moves model to the active device and, on the CPU or an XPU
// device, runs the extension's optimization when it is available. The input
// is not modified; callers must use the returned payload.
func (m *Manager) StageModel(model any) (any, error) {
	if !m.UsingCPU() {
		moved, err := m.runtime.Move(model, m.device)
		if err != nil {
			return nil, fmt.Errorf("stage model on %s: %w", m.device, err)
		}
		model = moved
	}

	if m.caps.Extension && m.optimizes() {
		optimized, err := m.ext.Optimize(model)
		if err != nil {
			return nil, fmt.Errorf("optimize model for %s: %w", m.device, err)
		}
		model = optimized
	}

	return model, nil
}

func (m *Manager) optimizes() bool {
	switch m.device.Backend {
	case ml.CPU, ml.XPU:
		return true
	default:
		return false
	}
}

// StageData moves data to the active device. On the CPU data is returned
// as is.
func (m *Manager) StageData(data any) (any, error) {
	if m.UsingCPU() {
		return data, nil
	}

	moved, err := m.runtime.Move(data, m.device)
	if err != nil {
		return nil, fmt.Errorf("stage data on %s: %w", m.device, err)
	}
	return moved, nil
}

// Synchronize blocks until queued work on the active device completes. It
// only calls into the runtime for the CUDA and XPU families.
func (m *Manager) Synchronize() error {
	switch m.device.Backend {
	case ml.CUDA, ml.XPU:
		if err := m.runtime.Synchronize(m.device); err != nil {
			return fmt.Errorf("synchronize %s: %w", m.device, err)
		}
		return nil
	default:
		return nil
	}
}
