// =============================================================================
// Payroll PDF Extractor - Logging
// =============================================================================
//
// Structured logging for the CLI. Log records go to stderr so that console
// progress on stdout stays readable, and are copied to the configured log
// file when one is set.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New builds the application logger.
//
// PARAMETERS:
//   - level:   "debug", "info", "warn" or "error".
//   - logFile: Optional file the log is appended to. Parent directories are created.
//   - verbose: Forces debug level.
//
// RETURNS:
//   - The logger.
//   - A close function for the log file. It is never nil.
//   - An error if the level is unknown or the file cannot be opened.
func New(level, logFile string, verbose bool) (*slog.Logger, func() error, error) {
	return newLogger(os.Stderr, level, logFile, verbose)
}

func newLogger(console io.Writer, level, logFile string, verbose bool) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, noop, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	out := console
	closeFn := noop
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closeFn = f.Close
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), closeFn, nil
}
