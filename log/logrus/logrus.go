package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/cacheaside"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ cacheaside.Logger = LogrusLogger{}

// New wraps a *logrus.Logger.
func New(l *logrus.Logger) LogrusLogger { return LogrusLogger{E: logrus.NewEntry(l)} }

func (l LogrusLogger) Debug(msg string, f cacheaside.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f cacheaside.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f cacheaside.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f cacheaside.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
