package ml

import (
	"bytes"
	"testing"
)

func TestTensorBytes(t *testing.T) {
	tt := NewTensor("w", []float32{1, -2}, 2)
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}
	if got := tt.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}

	half := &Tensor{DType: DTypeBF16, Raw: []byte{0x80, 0x3f}, Shape: []int{1}}
	if got := half.Bytes(); !bytes.Equal(got, half.Raw) {
		t.Errorf("expected raw bytes for bf16, got % x", got)
	}
}

func TestTensorToDoesNotMutate(t *testing.T) {
	orig := NewTensor("w", []float32{1, 2, 3, 4}, 2, 2)
	moved, err := orig.To(IndexedID(XPU, 0))
	if err != nil {
		t.Fatal(err)
	}

	m := moved.(*Tensor)
	m.Data[0] = 42
	if orig.Data[0] != 1 || orig.Device != BareID(CPU) {
		t.Errorf("original tensor changed: %+v", orig)
	}
	if m.Elements() != 4 {
		t.Errorf("expected 4 elements, got %d", m.Elements())
	}
}

func TestModelSize(t *testing.T) {
	m := &Model{Tensors: []*Tensor{
		NewTensor("w", make([]float32, 6), 2, 3),
		{Name: "b", DType: DTypeF16, Shape: []int{3}, Raw: make([]byte, 6)},
	}}
	if got := m.Size(); got != 6*4+3*2 {
		t.Errorf("unexpected size %d", got)
	}
	if (&Model{}).Device() != BareID(CPU) {
		t.Error("empty model should report the cpu")
	}
}
