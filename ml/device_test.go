package ml

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDeviceID(t *testing.T) {
	cases := []struct {
		in      string
		want    DeviceID
		wantErr bool
	}{
		{in: "cpu", want: BareID(CPU)},
		{in: "mps", want: BareID(MPS)},
		{in: "cuda", want: BareID(CUDA)},
		{in: "cuda:0", want: IndexedID(CUDA, 0)},
		{in: "xpu:12", want: IndexedID(XPU, 12)},
		{in: "cpu:0", wantErr: true},
		{in: "mps:1", wantErr: true},
		{in: "cuda:", wantErr: true},
		{in: "cuda:-1", wantErr: true},
		{in: "cuda:x", wantErr: true},
		{in: "rocm:0", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestDeviceIDString(t *testing.T) {
	cases := []struct {
		id   DeviceID
		want string
	}{
		{DeviceID{}, "cpu"},
		{IndexedID(CPU, 3), "cpu"},
		{IndexedID(MPS, 0), "mps"},
		{BareID(CUDA), "cuda"},
		{IndexedID(CUDA, 1), "cuda:1"},
	}

	for _, tt := range cases {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%#v: got %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDeviceIDOrdinal(t *testing.T) {
	if n := BareID(CUDA).Ordinal(); n != 0 {
		t.Errorf("bare ordinal: got %d", n)
	}
	if n := IndexedID(XPU, 2).Ordinal(); n != 2 {
		t.Errorf("indexed ordinal: got %d", n)
	}
}

func TestDeviceIDJSON(t *testing.T) {
	in := struct {
		Device  DeviceID `json:"device"`
		Backend Backend  `json:"backend"`
	}{IndexedID(XPU, 1), MPS}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"device":"xpu:1","backend":"mps"}` {
		t.Errorf("unexpected json %s", b)
	}

	var out struct {
		Device  DeviceID `json:"device"`
		Backend Backend  `json:"backend"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDeviceInfoString(t *testing.T) {
	cuda := DeviceInfo{
		ID:                  IndexedID(CUDA, 0),
		Name:                "NVIDIA A10",
		ComputeMajor:        8,
		ComputeMinor:        6,
		TotalMemory:         22515 * 1024 * 1024,
		MultiProcessorCount: 72,
	}
	want := "_CudaDeviceProperties(name='NVIDIA A10', major=8, minor=6, total_memory=22515MB, multi_processor_count=72)"
	if got := cuda.String(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	xpu := DeviceInfo{
		ID:           IndexedID(XPU, 1),
		Name:         "Intel(R) Arc(TM) A770 Graphics",
		ComputeMajor: -1,
		TotalMemory:  16 * 1024 * 1024 * 1024,
	}
	want = "_XpuDeviceProperties(name='Intel(R) Arc(TM) A770 Graphics', total_memory=16384MB)"
	if got := xpu.String(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSystemInfoString(t *testing.T) {
	s := SystemInfo{CPUName: "AMD EPYC 7763", TotalMemory: 64*1024*1024*1024 + 123, ThreadCount: 16, InterOpThreads: 8}
	want := "name='AMD EPYC 7763', total_memory=65536MB, threads=16, interop_threads=8"
	if got := s.String(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}
