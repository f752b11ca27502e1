// Package logging provides a leveled key/value logger on top of the standard
// log package. Output goes to stderr because stdout carries the MCP protocol.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level name used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a Level.
// Unknown or empty names yield LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[LEVEL] msg key=value ..." lines.
type Logger struct {
	level  Level
	logger *log.Logger
	// bound holds the pairs added by With, already formatted.
	bound string
}

// New creates a Logger writing to w with the given prefix and minimum level.
func New(w io.Writer, prefix string, level Level) *Logger {
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	return &Logger{
		level:  level,
		logger: log.New(w, prefix, log.Ldate|log.Ltime),
	}
}

// FromEnv creates a stderr Logger whose level comes from the named
// environment variable.
func FromEnv(prefix, envVar string) *Logger {
	return New(os.Stderr, prefix, ParseLevel(os.Getenv(envVar)))
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, "", LevelError+1)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues...)
}

// Error logs at LevelError.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues...)
}

// With returns a Logger that appends keysAndValues to every line, after the
// message and before the call's own pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		level:  l.level,
		logger: l.logger,
		bound:  l.bound + formatKV(keysAndValues),
	}
}

func (l *Logger) log(level Level, msg string, keysAndValues ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.logger.Printf("[%s] %s%s%s", level, msg, l.bound, formatKV(keysAndValues))
}

func formatKV(keysAndValues []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	if len(keysAndValues)%2 == 1 {
		fmt.Fprintf(&b, " %v=<missing>", keysAndValues[len(keysAndValues)-1])
	}
	return b.String()
}
