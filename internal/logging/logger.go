// Package logging builds the slog loggers shared by the CLI and the reference backend.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Formats accepted by WithFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	w      io.Writer
	format string
}

// Option customizes New.
type Option func(*options)

// WithWriter sends records to w instead of Stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.w = w }
}

// WithFormat selects the text or json handler. Unknown formats use text.
func WithFormat(format string) Option {
	return func(o *options) { o.format = strings.ToLower(strings.TrimSpace(format)) }
}

// New creates the application logger.
// Records go to Stderr by default so Stdout stays free for chat output and stdio MCP.
// The "error" key is renamed to "err".
func New(level slog.Level, opts ...Option) *slog.Logger {
	o := options{w: os.Stderr, format: FormatText}
	for _, opt := range opts {
		opt(&o)
	}

	ho := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if o.format == FormatJSON {
		return slog.New(slog.NewJSONHandler(o.w, ho))
	}
	return slog.New(slog.NewTextHandler(o.w, ho))
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to slog.Level. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
