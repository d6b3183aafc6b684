// MODUL: ext
// ZWECK: Optimierungs-Extension fuer Modelle auf CPU und XPU
// INPUT: *ml.Model oder *ml.Tensor
// OUTPUT: Optimierte Kopie (BF16 auf der CPU, F16 auf XPU-Geraeten)
// NEBENEFFEKTE: Keine (Eingabe wird nie veraendert)
// ABHAENGIGKEITEN: go-bfloat16, x448/float16, sysinfo
// HINWEISE: Mit Build-Tag "noext" wird die Extension nicht registriert

package ext

import (
	"encoding/binary"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"

	"github.com/ollama/devicemgr/ml"
)

// ============================================================================
// Extension - Modell-Optimierung
// ============================================================================

// Extension implementiert ml.Optimizer.
type Extension struct {
	// bf16 ist gesetzt wenn die CPU native BF16-Instruktionen hat
	bf16 bool
}

// New erstellt eine Extension. Mit bf16 werden CPU-Tensoren nach BF16 konvertiert.
func New(bf16 bool) *Extension {
	return &Extension{bf16: bf16}
}

// Name gibt den Modulnamen zurueck.
func (e *Extension) Name() string {
	return ml.ModuleExtension
}

// Optimize gibt eine optimierte Kopie von payload zurueck.
// Unbekannte Payloads werden unveraendert zurueckgegeben.
func (e *Extension) Optimize(payload any) (any, error) {
	switch p := payload.(type) {
	case *ml.Model:
		m := p.Clone()
		for i, t := range m.Tensors {
			m.Tensors[i] = e.convert(t)
		}
		m.Optimized = true
		return m, nil
	case *ml.Tensor:
		return e.convert(p.Clone()), nil
	default:
		return payload, nil
	}
}

// convert konvertiert einen bereits kopierten F32-Tensor passend zu seinem Geraet.
func (e *Extension) convert(t *ml.Tensor) *ml.Tensor {
	if t.DType != ml.DTypeF32 {
		return t
	}

	switch {
	case t.Device.Backend == ml.XPU:
		t.Raw = encodeF16(t.Data)
		t.DType = ml.DTypeF16
	case t.Device.Backend == ml.CPU && e.bf16:
		t.Raw = bfloat16.EncodeFloat32(t.Data)
		t.DType = ml.DTypeBF16
	default:
		return t
	}

	t.Data = nil
	return t
}

// ============================================================================
// Hilfsfunktionen
// ============================================================================

// encodeF16 kodiert f32-Werte als Little-Endian IEEE 754 half precision.
func encodeF16(f32s []float32) []byte {
	b := make([]byte, 0, 2*len(f32s))
	for _, v := range f32s {
		b = binary.LittleEndian.AppendUint16(b, float16.Fromfloat32(v).Bits())
	}
	return b
}

// DecodeF16 ist die Umkehrung von encodeF16.
func DecodeF16(b []byte) []float32 {
	f32s := make([]float32, len(b)/2)
	for i := range f32s {
		f32s[i] = float16.Frombits(binary.LittleEndian.Uint16(b[2*i:])).Float32()
	}
	return f32s
}

// DecodeBF16 dekodiert Little-Endian BF16-Werte.
func DecodeBF16(b []byte) []float32 {
	return bfloat16.DecodeFloat32(b)
}
