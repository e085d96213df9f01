// Package logging builds the slog loggers used by the treecluster command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Output formats supported by the logger
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w at the given level.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages, including distance matrix progress
//   - INFO: Info, Warn, and Error messages, e.g. the resulting groups
//   - WARN: Warn and Error messages, e.g. excluded trees
//   - ERROR: Only Error messages
//
// format is FormatText or FormatJSON; an empty format means FormatText.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (want %q or %q)", format, FormatText, FormatJSON)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops every message.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
