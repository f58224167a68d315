// Package logging builds the slog loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log level %q (want debug|info|warn|error)", internalerr.ErrInvalidInput, s)
}

// New returns a logger writing text or json records to w at level. Every
// record carries run=runID when runID is set.
func New(w io.Writer, level, format, runID string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: log format %q (want text|json)", internalerr.ErrInvalidInput, format)
	}

	logger := slog.New(h)
	if runID != "" {
		logger = logger.With("run", runID)
	}
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
