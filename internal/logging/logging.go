// Package logging builds the leveled stderr logger used across dtask.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is shown before every log line.
const Prefix = "dtask"

// New creates a logger writing to w with the given level and format names.
func New(w io.Writer, level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:     ParseLevel(level),
		Formatter: ParseFormatter(format),
		Prefix:    Prefix,
	})
}

// ParseLevel parses a level name. Unknown names fall back to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a formatter name. Unknown names fall back to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level is a recognized level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat reports whether format is a recognized formatter name.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}
