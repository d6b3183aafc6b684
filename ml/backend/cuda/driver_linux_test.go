//go:build linux && (amd64 || arm64)

package cuda

import "testing"

func TestCString(t *testing.T) {
	cases := map[string][]byte{
		"NVIDIA A10": append([]byte("NVIDIA A10"), 0, 'x', 0),
		"":           {0, 'a'},
		"no-nul":     []byte("no-nul"),
	}

	for want, in := range cases {
		if got := cstring(in); got != want {
			t.Errorf("cstring(%q) = %q, want %q", in, got, want)
		}
	}
}
