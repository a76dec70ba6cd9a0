// Package logger wraps log/slog with a small text handler, in the style of
// rcornwell/S370's util/logger package: a compact timestamp/level/message
// line written to a configured output, with an optional debug mirror to
// stderr.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is a slog.Handler that renders records as a single
// "timestamp level message attrs..." line.
type Handler struct {
	out   io.Writer
	mu    *sync.Mutex
	debug bool
}

// New returns a Handler writing to out. If debug is true, every record is
// also mirrored to stderr regardless of level.
func New(out io.Writer, debug bool) *Handler {
	return &Handler{out: out, mu: &sync.Mutex{}, debug: debug}
}

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{formattedTime, r.Level.String() + ":", r.Message}

	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Key+"="+a.Value.String())
		return true
	})

	line := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(line)
	}
	if h.debug {
		_, _ = os.Stderr.Write(line)
	}
	return err
}
