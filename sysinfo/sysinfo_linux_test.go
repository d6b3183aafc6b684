package sysinfo

import (
	"bufio"
	"strings"
	"testing"
)

func TestParseCPUInfo(t *testing.T) {
	cases := map[string]struct {
		input string
		want  string
	}{
		"x86": {
			input: "processor\t: 0\nvendor_id\t: GenuineIntel\nmodel name\t: Intel(R) Xeon(R) Platinum 8480+\nflags\t\t: fpu\n",
			want:  "Intel(R) Xeon(R) Platinum 8480+",
		},
		"raspberry pi": {
			input: "processor\t: 0\nBogoMIPS\t: 108.00\n\nHardware\t: BCM2835\nModel\t\t: Raspberry Pi 4 Model B Rev 1.4\n",
			want:  "Raspberry Pi 4 Model B Rev 1.4",
		},
		"empty model name": {
			input: "model name\t:\nprocessor\t: 0\n",
			want:  "",
		},
		"none": {
			input: "processor\t: 0\n",
			want:  "",
		},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			got := parseCPUInfo(bufio.NewScanner(strings.NewReader(tt.input)))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
