// Package logrus adapts sirupsen/logrus to the renderpipe Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/textpipe/renderpipe"
)

type Logger struct{ E *logrus.Entry }

var _ renderpipe.Logger = Logger{}

func New(e *logrus.Entry) Logger { return Logger{E: e} }

func (l Logger) Debug(msg string, f renderpipe.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l Logger) Info(msg string, f renderpipe.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f renderpipe.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f renderpipe.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
