package device

import (
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/ollama/devicemgr/logutil"
	"github.com/ollama/devicemgr/ml"
)

// enumerate builds the valid device list in fixed priority order: the CUDA
// family, the XPU family, the on-board GPU, then the CPU.
func (m *Manager) enumerate() []ID {
	var valid []ID

	if m.caps.CUDA && m.live(ml.CUDA) {
		valid = m.appendFamily(valid, ml.CUDA)
	}

	if m.caps.XPU && m.live(ml.XPU) {
		valid = m.appendFamily(valid, ml.XPU)
	}

	if m.caps.MPS && m.live(ml.MPS) {
		valid = append(valid, ml.BareID(ml.MPS))
	}

	return append(valid, ml.BareID(ml.CPU))
}

// live runs the runtime's usability check for b. A panicking check counts
// as unusable.
func (m *Manager) live(b ml.Backend) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Debug("live check failed", "backend", b, "error", r)
			ok = false
		}
	}()

	ok = m.runtime.BackendAvailable(b)
	m.log.Debug("live check", "backend", b, "usable", ok)
	return ok
}

// appendFamily appends the bare id of b followed by one indexed id per
// device in ascending order.
func (m *Manager) appendFamily(valid []ID, b ml.Backend) []ID {
	valid = append(valid, ml.BareID(b))
	for i := range m.deviceCount(b) {
		id := ml.IndexedID(b, i)
		logutil.TraceLogger(m.log, "enumerated device", "device", id)
		valid = append(valid, id)
	}
	return valid
}

func (m *Manager) deviceCount(b ml.Backend) (n int) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Debug("device count failed", "backend", b, "error", r)
			n = 0
		}
	}()

	return max(m.runtime.DeviceCount(b), 0)
}

// resolve picks the active device. Only an exact match of a valid id is
// accepted.
func resolve(preferred string, valid []ID) (ID, error) {
	if preferred == "" {
		return valid[0], nil
	}

	if i := slices.IndexFunc(valid, func(id ID) bool { return id.String() == preferred }); i >= 0 {
		return valid[i], nil
	}

	return ID{}, &InvalidDeviceError{
		Device:     preferred,
		Valid:      slices.Clone(valid),
		Suggestion: suggest(preferred, valid),
	}
}

// suggest returns the valid id closest to s, or an empty string when none is
// within three edits.
func suggest(s string, valid []ID) string {
	best, bestDist := "", 4
	for _, id := range valid {
		if d := levenshtein.ComputeDistance(s, id.String()); d < bestDist {
			best, bestDist = id.String(), d
		}
	}
	return best
}
