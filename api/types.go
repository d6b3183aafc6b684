// types.go - Request- und Response-Typen des Device-Servers
// Enthaelt: StatusError, Device, DeviceMap, DevicesResponse, DeviceResponse
package api

import (
	"encoding/json"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ollama/devicemgr/ml"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the devicemgr server logs for details"
	}
}

// ============================================================================
// Device Types
// ============================================================================

// Device is one entry of the device report.
type Device struct {
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Properties  *ml.DeviceInfo `json:"properties,omitempty"`
	System      *ml.SystemInfo `json:"system,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// DeviceMap holds devices keyed by id in priority order.
type DeviceMap struct {
	om *orderedmap.OrderedMap[string, Device]
}

func NewDeviceMap() *DeviceMap {
	return &DeviceMap{om: orderedmap.New[string, Device]()}
}

// Get retrieves a device by id.
func (m *DeviceMap) Get(id string) (Device, bool) {
	if m == nil || m.om == nil {
		return Device{}, false
	}
	return m.om.Get(id)
}

// Set sets a device, preserving insertion order.
func (m *DeviceMap) Set(id string, d Device) {
	if m.om == nil {
		m.om = orderedmap.New[string, Device]()
	}
	m.om.Set(id, d)
}

func (m *DeviceMap) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// All returns an iterator over all devices in priority order.
func (m *DeviceMap) All() iter.Seq2[string, Device] {
	return func(yield func(string, Device) bool) {
		if m == nil || m.om == nil {
			return
		}
		for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys returns the device ids in priority order.
func (m *DeviceMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

func (m *DeviceMap) UnmarshalJSON(data []byte) error {
	m.om = orderedmap.New[string, Device]()
	return json.Unmarshal(data, m.om)
}

func (m DeviceMap) MarshalJSON() ([]byte, error) {
	if m.om == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.om)
}

// DevicesResponse is the response from [Client.Devices].
type DevicesResponse struct {
	Device  string    `json:"device"`
	Devices DeviceMap `json:"devices"`
}

// DeviceResponse is the response from [Client.Device].
type DeviceResponse struct {
	Device       string          `json:"device"`
	UsingGPU     bool            `json:"using_gpu"`
	Capabilities map[string]bool `json:"capabilities"`
	Valid        []string        `json:"valid"`
}
