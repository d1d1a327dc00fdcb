// Package logging provides leveled, field-aware logging for ShootFlow.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is a log severity threshold.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	}
	return "UNKNOWN"
}

func (l Level) color() string {
	switch l {
	case DEBUG:
		return "\033[36m"
	case INFO:
		return "\033[32m"
	case WARN:
		return "\033[33m"
	case ERROR:
		return "\033[31m"
	}
	return "\033[0m"
}

// ParseLevel maps a config string onto a Level. Unknown strings mean INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	}
	return INFO
}

// Logger writes timestamped, colored lines with optional key=value fields.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
	fields map[string]interface{}
}

var defaultLogger = &Logger{
	level:  INFO,
	output: os.Stdout,
	fields: map[string]interface{}{},
}

// SetLevel sets the global threshold.
func SetLevel(level Level) { defaultLogger.level = level }

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(w io.Writer) { defaultLogger.output = w }

// WithField returns a child of the global logger carrying one extra field.
func WithField(key string, value interface{}) *Logger {
	return defaultLogger.WithField(key, value)
}

// WithField returns a copy of l carrying one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	child := &Logger{
		level:  l.level,
		output: l.output,
		fields: make(map[string]interface{}, len(l.fields)+1),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return child
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	// Sorted so repeated lines diff cleanly.
	var fieldsStr string
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldsStr = " |"
		for _, k := range keys {
			fieldsStr += fmt.Sprintf(" %s=%v", k, l.fields[k])
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "%s %s[%s]\033[0m %s%s\n",
		time.Now().Format("15:04:05"), level.color(), level, formatted, fieldsStr)
}

func Debug(msg string, args ...interface{}) { defaultLogger.log(DEBUG, msg, args...) }
func Info(msg string, args ...interface{})  { defaultLogger.log(INFO, msg, args...) }
func Warn(msg string, args ...interface{})  { defaultLogger.log(WARN, msg, args...) }
func Error(msg string, args ...interface{}) { defaultLogger.log(ERROR, msg, args...) }

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(ERROR, msg, args...) }
