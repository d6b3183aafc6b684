package format

import "testing"

func TestHumanBytes2(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{KibiByte, "1.0 KiB"},
		{MebiByte + MebiByte/2, "1.5 MiB"},
		{24 * GibiByte, "24.0 GiB"},
	}

	for _, tt := range cases {
		t.Run(tt.want, func(t *testing.T) {
			if got := HumanBytes2(tt.in); got != tt.want {
				t.Errorf("HumanBytes2(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMiB(t *testing.T) {
	if got := MiB(16*GibiByte + MebiByte - 1); got != 16*1024 {
		t.Errorf("MiB rounds down: got %d", got)
	}
	if got := MiB(MebiByte - 1); got != 0 {
		t.Errorf("MiB below one mebibyte: got %d", got)
	}
}
