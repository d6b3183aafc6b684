// Package device selects the compute device a workload runs on and stages
// payloads onto it.
//
// A Manager is built once with New: it probes the capability modules
// registered in package ml, enumerates the devices this host can use and
// resolves the active device from an optional preference. Its state does not
// change afterwards, so a single Manager can be shared by every consumer.
package device

import (
	"log/slog"

	"github.com/ollama/devicemgr/ml"
	"github.com/ollama/devicemgr/sysinfo"
)

// ID identifies a valid device, e.g. cuda:0, xpu, mps or cpu.
type ID = ml.DeviceID

// Runtime is the numeric runtime the manager queries and moves payloads with.
type Runtime interface {
	BackendAvailable(b ml.Backend) bool
	DeviceCount(b ml.Backend) int
	DeviceInfo(id ID) (ml.DeviceInfo, error)
	Move(payload any, id ID) (any, error)
	Synchronize(id ID) error
	ThreadCounts() (intraOp, interOp int)
}

// SystemInfo reports host memory and the CPU model name.
type SystemInfo interface {
	TotalMemory() uint64
	CPUBrand() string
}

// Extension optimizes models staged on the CPU or an XPU device.
type Extension interface {
	Optimize(payload any) (any, error)
}

// ProbeFunc loads a capability module by name, reporting false when it is
// absent. It must not panic.
type ProbeFunc func(name string) (ml.Module, bool)

// Capabilities records which optional backends were found at construction.
type Capabilities struct {
	CUDA      bool `json:"cuda"`
	XPU       bool `json:"xpu"`
	Extension bool `json:"extension"`
	MPS       bool `json:"mps"`
}

// Manager is the device selection and staging facade. All fields are fixed
// by New.
type Manager struct {
	caps    Capabilities
	valid   []ID
	device  ID
	runtime Runtime
	sys     SystemInfo
	ext     Extension
	log     *slog.Logger
}

type options struct {
	probe   ProbeFunc
	runtime Runtime
	sys     SystemInfo
	log     *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithProbe replaces ml.Probe as the capability probe.
func WithProbe(p ProbeFunc) Option {
	return func(o *options) { o.probe = p }
}

// WithRuntime replaces the runtime built from the probed modules.
func WithRuntime(r Runtime) Option {
	return func(o *options) { o.runtime = r }
}

// WithSystemInfo replaces the host system information provider.
func WithSystemInfo(s SystemInfo) Option {
	return func(o *options) { o.sys = s }
}

// WithLogger sets the logger used for probing and enumeration decisions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New probes the available backends, enumerates the usable devices and
// resolves the active device. An empty preferred selects the most capable
// device. A preferred device that is not valid on this host fails with an
// *InvalidDeviceError and no Manager is returned.
func New(preferred string, opts ...Option) (*Manager, error) {
	o := options{
		probe: ml.Probe,
		sys:   sysinfo.Host{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	overrideWarnings(o.log)

	m := &Manager{sys: o.sys, log: o.log}

	mods := m.probe(o.probe)
	if o.runtime != nil {
		m.runtime = o.runtime
	} else {
		m.runtime = ml.NewRuntime(mods...)
	}

	m.valid = m.enumerate()

	device, err := resolve(preferred, m.valid)
	if err != nil {
		return nil, err
	}
	m.device = device

	m.log.Info("selected device", "device", m.device, "valid", m.valid)
	return m, nil
}

// Device returns the active device.
func (m *Manager) Device() ID {
	return m.device
}

// ValidDevices returns a copy of the valid devices in priority order. The
// last element is always the CPU.
func (m *Manager) ValidDevices() []ID {
	return append([]ID(nil), m.valid...)
}

func (m *Manager) Capabilities() Capabilities {
	return m.caps
}

// UsingGPU reports whether the active device is anything but the CPU.
func (m *Manager) UsingGPU() bool {
	return m.device.Backend != ml.CPU
}

func (m *Manager) UsingCPU() bool {
	return m.device.Backend == ml.CPU
}
