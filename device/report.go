package device

import (
	"fmt"
	"io"

	"github.com/ollama/devicemgr/ml"
)

// Kind classifies an entry of the device report.
type Kind string

const (
	KindAccelerator Kind = "accelerator"
	KindOnboard     Kind = "onboard"
	KindCPU         Kind = "cpu"
)

const onboardLabel = "On-board device"

// DeviceReport describes one valid device.
type DeviceReport struct {
	ID          ID             `json:"id"`
	Kind        Kind           `json:"kind"`
	Description string         `json:"description"`
	Properties  *ml.DeviceInfo `json:"properties,omitempty"`
	System      *ml.SystemInfo `json:"system,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// SystemInfo describes the CPU entry: host memory, CPU model and the
// runtime's thread configuration.
func (m *Manager) SystemInfo() ml.SystemInfo {
	intraOp, interOp := m.runtime.ThreadCounts()
	return ml.SystemInfo{
		CPUName:        m.sys.CPUBrand(),
		TotalMemory:    m.sys.TotalMemory(),
		ThreadCount:    intraOp,
		InterOpThreads: interOp,
	}
}

// Report describes every valid device in list order.
func (m *Manager) Report() []DeviceReport {
	reports := make([]DeviceReport, 0, len(m.valid))
	for _, id := range m.valid {
		r := DeviceReport{ID: id}
		switch id.Backend {
		case ml.CUDA, ml.XPU:
			r.Kind = KindAccelerator
			info, err := m.runtime.DeviceInfo(id)
			if err != nil {
				r.Error = err.Error()
				r.Description = fmt.Sprintf("unavailable (%v)", err)
				break
			}
			r.Properties = &info
			r.Description = info.String()
		case ml.MPS:
			r.Kind = KindOnboard
			r.Description = onboardLabel
		case ml.CPU:
			r.Kind = KindCPU
			sys := m.SystemInfo()
			r.System = &sys
			r.Description = sys.String()
		}
		reports = append(reports, r)
	}
	return reports
}

// ListDevices writes one line per valid device to w.
func (m *Manager) ListDevices(w io.Writer) error {
	for _, r := range m.Report() {
		if _, err := fmt.Fprintf(w, "[%s]: %s\n", r.ID, r.Description); err != nil {
			return err
		}
	}
	return nil
}
