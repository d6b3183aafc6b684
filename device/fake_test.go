package device

import (
	"fmt"
	"log/slog"

	"github.com/ollama/devicemgr/ml"
)

type fakeModule string

func (m fakeModule) Name() string { return string(m) }

type optimized struct {
	payload any
}

type fakeExtension struct {
	calls int
	err   error
}

func (e *fakeExtension) Name() string { return ml.ModuleExtension }

func (e *fakeExtension) Optimize(payload any) (any, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return optimized{payload}, nil
}

// probeOf reports the named modules as present. "ext" resolves to ext.
func probeOf(ext *fakeExtension, names ...string) ProbeFunc {
	return func(name string) (ml.Module, bool) {
		for _, n := range names {
			if n != name {
				continue
			}
			if name == ml.ModuleExtension {
				return ext, true
			}
			return fakeModule(name), true
		}
		return nil, false
	}
}

type placed struct {
	payload any
	id      ID
}

type fakeRuntime struct {
	available   map[ml.Backend]bool
	counts      map[ml.Backend]int
	panics      map[ml.Backend]bool
	countPanics map[ml.Backend]bool
	infos       map[ID]ml.DeviceInfo
	intraOp     int
	interOp     int
	moveErr     error

	moves []ID
	syncs []ID
}

func (r *fakeRuntime) BackendAvailable(b ml.Backend) bool {
	if r.panics[b] {
		panic(fmt.Sprintf("%s driver exploded", b))
	}
	return r.available[b]
}

func (r *fakeRuntime) DeviceCount(b ml.Backend) int {
	if r.countPanics[b] {
		panic(fmt.Sprintf("%s device count exploded", b))
	}
	return r.counts[b]
}

func (r *fakeRuntime) DeviceInfo(id ID) (ml.DeviceInfo, error) {
	info, ok := r.infos[ml.IndexedID(id.Backend, id.Ordinal())]
	if !ok {
		return ml.DeviceInfo{}, fmt.Errorf("%s: %w", id, ml.ErrUnavailable)
	}
	info.ID = id
	return info, nil
}

func (r *fakeRuntime) Move(payload any, id ID) (any, error) {
	r.moves = append(r.moves, id)
	if r.moveErr != nil {
		return nil, r.moveErr
	}
	return placed{payload, id}, nil
}

func (r *fakeRuntime) Synchronize(id ID) error {
	r.syncs = append(r.syncs, id)
	return nil
}

func (r *fakeRuntime) ThreadCounts() (int, int) {
	return r.intraOp, r.interOp
}

type fakeSystem struct{}

func (fakeSystem) TotalMemory() uint64 { return 16<<30 + 512<<10 }
func (fakeSystem) CPUBrand() string    { return "Intel(R) Xeon(R)" }

var quiet = slog.New(slog.DiscardHandler)

// gpuHost has two CUDA devices, one XPU device and no on-board GPU.
func gpuHost() *fakeRuntime {
	return &fakeRuntime{
		available: map[ml.Backend]bool{ml.CUDA: true, ml.XPU: true, ml.MPS: true, ml.CPU: true},
		counts:    map[ml.Backend]int{ml.CUDA: 2, ml.XPU: 1, ml.MPS: 1, ml.CPU: 1},
		infos: map[ID]ml.DeviceInfo{
			ml.IndexedID(ml.CUDA, 0): {Name: "NVIDIA A10", TotalMemory: 22515 << 20, ComputeMajor: 8, ComputeMinor: 6, MultiProcessorCount: 72},
			ml.IndexedID(ml.CUDA, 1): {Name: "NVIDIA T4", TotalMemory: 15360 << 20, ComputeMajor: 7, ComputeMinor: 5, MultiProcessorCount: 40},
		},
		intraOp: 8,
		interOp: 4,
	}
}

func newManager(preferred string, rt *fakeRuntime, probe ProbeFunc) (*Manager, error) {
	return New(preferred,
		WithProbe(probe),
		WithRuntime(rt),
		WithSystemInfo(fakeSystem{}),
		WithLogger(quiet),
	)
}
