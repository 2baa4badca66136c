// Package obslog sets up the process-wide structured logger. It is never
// called from a decoder's hot path — construction, context-building, CLI
// commands, and error paths log; GetInfo/MakeInst do not.
package obslog

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Config selects the sinks and level for the process logger.
type Config struct {
	Level      slog.Level
	JSON       bool
	ExtraSinks []io.Writer
}

// New builds a *slog.Logger that fans out to stderr (human or JSON
// formatted per cfg.JSON) plus any additional sinks, via slog-multi.
func New(cfg Config) *slog.Logger {
	handlers := []slog.Handler{newHandler(os.Stderr, cfg)}
	for _, w := range cfg.ExtraSinks {
		handlers = append(handlers, newHandler(w, cfg))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Default installs New(cfg) as the slog package default and returns it.
func Default(cfg Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}
