package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var zerologLevels = map[LogLevel]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// Logger provides leveled, component-tagged logging backed by zerolog.
type Logger struct {
	zl zerolog.Logger
}

func New(minLevel LogLevel) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	zl := zerolog.New(output).With().Timestamp().Logger().Level(zerologLevels[minLevel])
	return &Logger{zl: zl}
}

func (l *Logger) event(ev *zerolog.Event, component, message string, args ...interface{}) {
	if component != "" {
		ev = ev.Str("component", component)
	}
	ev.Msgf(message, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.event(l.zl.Debug(), component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.event(l.zl.Info(), component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.event(l.zl.Warn(), component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.event(l.zl.Error(), component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.event(l.zl.Fatal(), component, message, args...)
}
