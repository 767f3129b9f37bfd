// Package logger is the zap-backed structured logger shared by the server
// and the CLI.
package logger

import (
	"sync"
)

// Log levels accepted in config (log_level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	processLogger *Logger
	once          sync.Once
)

// ValidLevel reports whether s is one of the accepted level names.
func ValidLevel(s string) bool {
	switch s {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

// Get returns the process-wide stdout logger. The first call fixes the
// level; later calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		processLogger = newZapLogger(level, stdoutSink())
	})
	return processLogger
}

// Named returns a child logger whose lines carry the component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(component)}
}
