package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
)

const LevelTrace slog.Level = -8

// NewLogger returns a text logger that prints the short source file and
// renders LevelTrace as TRACE
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

func Trace(msg string, args ...any) {
	slog.Log(context.TODO(), LevelTrace, msg, args...)
}

func TraceLogger(l *slog.Logger, msg string, args ...any) {
	l.Log(context.TODO(), LevelTrace, msg, args...)
}
