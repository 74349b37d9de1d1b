// Package zap adapts go.uber.org/zap to the renderpipe Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/textpipe/renderpipe"
)

type Logger struct{ L *zap.Logger }

var _ renderpipe.Logger = Logger{}

func New(l *zap.Logger) Logger { return Logger{L: l} }

func (z Logger) Debug(msg string, f renderpipe.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f renderpipe.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f renderpipe.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f renderpipe.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f renderpipe.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
