package log

import "gopkg.in/Sirupsen/logrus.v0"

// Level mirrors logrus.Level so Module.Enabled() and EntryZ.End() can
// compare against it without importing logrus in every caller.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func (lvl Level) logrus() logrus.Level {
	return logrus.Level(lvl)
}
