package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelTrace)

	TraceLogger(l, "probing", "module", "cuda")

	out := buf.String()
	if !strings.Contains(out, "level=TRACE") {
		t.Errorf("expected TRACE level in %q", out)
	}
	if !strings.Contains(out, "source=logutil.go") && !strings.Contains(out, "source=logutil_test.go") {
		t.Errorf("expected short source file in %q", out)
	}
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, slog.LevelInfo)

	l.Debug("hidden")
	TraceLogger(l, "hidden too")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
