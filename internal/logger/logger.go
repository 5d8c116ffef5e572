// Package logger provides the process-wide structured logger.
package logger

import (
	"sync"
)

// Level names accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings accepted in configuration.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

var (
	root     *Logger
	initOnce sync.Once
)

// Get returns the process logger, creating it at level on first use. Later
// calls ignore level; Configure adjusts the running logger instead.
func Get(level string) *Logger {
	initOnce.Do(func() {
		root = newZapLogger(level, ConsoleFormat)
	})
	return root
}

// Configure applies the configured level and encoding to the process logger
// and returns it. Switching the encoding rebuilds the core; children created
// with Named before the switch keep the old encoding.
func Configure(level, format string) *Logger {
	l := Get(level)
	l.SetLevel(level)
	if format == JSONFormat && l.format != JSONFormat {
		*l = *newZapLoggerAt(l.level, JSONFormat)
	}
	return l
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	switch s {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

// ValidFormat reports whether s names a known encoding.
func ValidFormat(s string) bool {
	return s == ConsoleFormat || s == JSONFormat
}
