package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. JSON output is used outside local development.
func New(level string, json bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
