// Package logger builds charmbracelet/log loggers for hive. Everything goes to
// stderr; stdout is reserved for results and the IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup installs the process-wide default logger. Debug output is only shown
// when debug is set; otherwise warnings and errors are.
func Setup(debug bool) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	log.SetDefault(NewWithConfig(os.Stderr, "hive", level, debug, false, log.TextFormatter))
}

// New creates a logger that respects the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a charm logger with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
