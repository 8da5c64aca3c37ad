// Package logger provides structured logging for the simulator server.
// Every state-changing action should be traceable through this.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a logrus logger with the small surface the rest of the
// codebase uses.
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a logger writing to stdout at info level.
func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{log: l}
}

// NewFileLogger creates a logger writing to both stdout and a rotating file.
func NewFileLogger(path, level string) *Logger {
	l := logrus.New()
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(os.Stdout, rotator))
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &Logger{log: l}
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Event logs a state-changing simulation event for audit.
func (l *Logger) Event(eventType, subjectID, details string) {
	l.log.WithFields(logrus.Fields{
		"event":   eventType,
		"subject": subjectID,
	}).Info(details)
}
