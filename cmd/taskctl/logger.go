package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-monolith/mono/pkg/types"
)

// slogLogger adapts log/slog to the logger interface the engine and the
// remote client expect, so the CLI logs without starting the framework.
type slogLogger struct {
	l *slog.Logger
}

func newLogger(w io.Writer, level string) types.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))}
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s slogLogger) With(args ...any) types.Logger {
	return slogLogger{l: s.l.With(args...)}
}

func (s slogLogger) WithModule(name string) types.Logger {
	return slogLogger{l: s.l.With("module", name)}
}

func (s slogLogger) WithError(err error) types.Logger {
	return slogLogger{l: s.l.With("error", err)}
}
