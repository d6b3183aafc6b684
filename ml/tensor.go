// tensor.go
// Dieses Modul enthaelt Tensor und Model, die Referenz-Payloads, die CLI und
// Tests zwischen Geraeten verschieben.

package ml

import (
	"encoding/binary"
	"math"
	"slices"
)

// Buffer is a device allocation backing a tensor.
type Buffer interface {
	Size() uint64
	Free() error
}

// Tensor is a dense array of values. F32 tensors keep their values in Data;
// 16-bit tensors keep little-endian raw values in Raw.
type Tensor struct {
	Name   string
	Shape  []int
	DType  DType
	Data   []float32
	Raw    []byte
	Device DeviceID

	// Buffer is set when a backend copied the tensor into device memory
	Buffer Buffer
}

func NewTensor(name string, data []float32, shape ...int) *Tensor {
	return &Tensor{
		Name:   name,
		Shape:  shape,
		DType:  DTypeF32,
		Data:   data,
		Device: BareID(CPU),
	}
}

func (t *Tensor) Elements() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Bytes returns the host representation of the tensor values
func (t *Tensor) Bytes() []byte {
	if t.DType != DTypeF32 {
		return t.Raw
	}
	b := make([]byte, 0, 4*len(t.Data))
	for _, v := range t.Data {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// Clone returns a copy that shares no slices with t. The device buffer is
// not copied.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		Name:   t.Name,
		Shape:  slices.Clone(t.Shape),
		DType:  t.DType,
		Data:   slices.Clone(t.Data),
		Raw:    slices.Clone(t.Raw),
		Device: t.Device,
	}
}

// To records id as the placement of a copy of t. Host values stay
// authoritative for backends that do not provide a Mover.
func (t *Tensor) To(id DeviceID) (any, error) {
	c := t.Clone()
	c.Device = id
	return c, nil
}

// Model is an ordered set of named tensors.
type Model struct {
	Name    string
	Tensors []*Tensor

	// Optimized is set once the optimization extension processed the model
	Optimized bool
}

func (m *Model) Clone() *Model {
	c := &Model{Name: m.Name, Optimized: m.Optimized, Tensors: make([]*Tensor, len(m.Tensors))}
	for i, t := range m.Tensors {
		c.Tensors[i] = t.Clone()
	}
	return c
}

func (m *Model) To(id DeviceID) (any, error) {
	c := m.Clone()
	for _, t := range c.Tensors {
		t.Device = id
	}
	return c, nil
}

// Device returns the placement of the first tensor, or the CPU when the
// model is empty
func (m *Model) Device() DeviceID {
	if len(m.Tensors) == 0 {
		return BareID(CPU)
	}
	return m.Tensors[0].Device
}

// Size returns the number of bytes of all tensor values
func (m *Model) Size() uint64 {
	var n uint64
	for _, t := range m.Tensors {
		n += uint64(t.Elements() * t.DType.Size())
	}
	return n
}
