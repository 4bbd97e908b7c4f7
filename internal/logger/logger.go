// Package logger provides structured logging for the cmdgraph console.
package logger

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus logger
type Logger struct {
	log    *logrus.Logger
	fields logrus.Fields
}

// Entry wraps logrus entry for method chaining
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// New creates a new logger instance
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(parseLevel(level))

	// Use simple text formatter with colors
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	return &Logger{log: log}
}

// parseLevel falls back to info for unknown levels
func parseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// Level returns the current level name
func (l *Logger) Level() string {
	return l.log.GetLevel().String()
}

// With returns a child logger that adds key=value to every entry
func (l *Logger) With(key string, value any) *Logger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{log: l.log, fields: fields}
}

func (l *Logger) entry(level logrus.Level) *Entry {
	return &Entry{entry: logrus.NewEntry(l.log).WithFields(l.fields), level: level}
}

// Debug logs a debug message
func (l *Logger) Debug() *Entry { return l.entry(logrus.DebugLevel) }

// Info logs an info message
func (l *Logger) Info() *Entry { return l.entry(logrus.InfoLevel) }

// Warn logs a warning message
func (l *Logger) Warn() *Entry { return l.entry(logrus.WarnLevel) }

// Error logs an error message
func (l *Logger) Error() *Entry { return l.entry(logrus.ErrorLevel) }

// Str adds a string field
func (e *Entry) Str(key, value string) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Strs adds a string slice field, joined with spaces
func (e *Entry) Strs(key string, values []string) *Entry {
	e.entry = e.entry.WithField(key, strings.Join(values, " "))
	return e
}

// Bool adds a bool field
func (e *Entry) Bool(key string, value bool) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Err adds an error field, and its code when the error carries one
func (e *Entry) Err(err error) *Entry {
	if err == nil {
		return e
	}
	e.entry = e.entry.WithError(err)

	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		e.entry = e.entry.WithField("code", coded.Code())
	}
	return e
}

// Msg logs the message with accumulated fields
func (e *Entry) Msg(msg string) {
	e.entry.Log(e.level, msg)
}
