package mocks

import (
	"fmt"

	"github.com/yazici/openfx-io/pkg/ports"
)

// LogEntry records one call to Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger is a mock implementation of ports.Logger that records every call
// for assertions instead of writing anywhere.
type Logger struct {
	component string
	entries   *[]LogEntry
}

// NewLogger creates a fresh recording logger.
func NewLogger() *Logger {
	return &Logger{entries: &[]LogEntry{}}
}

func (l *Logger) record(level ports.LogLevel, msg string, args ...interface{}) {
	*l.entries = append(*l.entries, LogEntry{
		Level:     level,
		Component: l.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.record(ports.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.record(ports.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.record(ports.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.record(ports.LevelError, msg, args...) }

func (l *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, entries: l.entries}
}

// Entries returns every recorded call across this logger and any
// WithComponent children, in call order.
func (l *Logger) Entries() []LogEntry {
	return *l.entries
}

var _ ports.Logger = (*Logger)(nil)
