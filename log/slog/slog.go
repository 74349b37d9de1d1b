// Package slog adapts the standard library's log/slog to the renderpipe
// Logger.
package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/textpipe/renderpipe"
)

type Logger struct{ L *stdslog.Logger }

var _ renderpipe.Logger = Logger{}

func New(l *stdslog.Logger) Logger { return Logger{L: l} }

func (s Logger) Debug(msg string, f renderpipe.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f renderpipe.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f renderpipe.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f renderpipe.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f renderpipe.Fields) {
	s.L.LogAttrs(context.Background(), level, msg, attrs(f)...)
}

func attrs(f renderpipe.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	return out
}
