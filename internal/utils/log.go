// Package utils provides shared helpers for ward, including structured logging.
package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerOptions configures the logger.
type LoggerOptions struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer
	// Prefix is the component name prefix
	Prefix string
	// TimeFormat is the time format string (default: RFC3339)
	TimeFormat string
	// ReportCaller adds file:line to log entries
	ReportCaller bool
	// ReportTimestamp adds timestamps to log entries
	ReportTimestamp bool
}

// DefaultLoggerOptions returns sensible default options.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:           "info",
		Output:          os.Stderr,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	}
}

// parseLevel converts a string level to log.Level.
func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// InitLogger creates a new logger with the given options.
func InitLogger(opts LoggerOptions) *log.Logger {
	return log.NewWithOptions(opts.Output, log.Options{
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      opts.TimeFormat,
		ReportCaller:    opts.ReportCaller,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// InitDefaultLogger creates a logger with default options, respecting WARD_LOG_LEVEL.
func InitDefaultLogger() *log.Logger {
	opts := DefaultLoggerOptions()

	if level := os.Getenv("WARD_LOG_LEVEL"); level != "" {
		opts.Level = level
	}

	return InitLogger(opts)
}

// InitFileLogger creates a logger that appends to a file.
func InitFileLogger(path string, opts LoggerOptions) (*log.Logger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}

	opts.Output = f
	return InitLogger(opts), nil
}

// InitSessionLogger creates the logger for an interactive session.
// It appends structured output to <dataDir>/session.log.
func InitSessionLogger(dataDir, level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	opts := LoggerOptions{
		Level:           level,
		Prefix:          "session",
		TimeFormat:      time.RFC3339,
		ReportCaller:    true,
		ReportTimestamp: true,
	}
	return InitFileLogger(filepath.Join(dataDir, "session.log"), opts)
}

// Global default logger instance
var defaultLogger = InitDefaultLogger()

// SetDefaultLogger replaces the global default logger.
func SetDefaultLogger(logger *log.Logger) {
	defaultLogger = logger
}

// Debug logs a debug message with key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs an info message with key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs a warning message with key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs an error message with key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Error(msg, keyvals...)
}

// With returns a logger with additional default key-value pairs.
func With(keyvals ...interface{}) *log.Logger {
	return defaultLogger.With(keyvals...)
}

// WithPrefix returns a logger with the given prefix.
func WithPrefix(prefix string) *log.Logger {
	return defaultLogger.WithPrefix(prefix)
}
