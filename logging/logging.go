// Package logging builds the slog loggers used by the seek commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/fwojciec/seek"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New returns a logger writing to w. The json format uses slog's JSON
// handler; anything else gets the human-readable colored handler, with
// colors only when w is a terminal.
func New(cfg seek.LogConfig, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(NewColorHandler(w, level, isTerminal(w)))
}

// Open returns a logger for cfg. When cfg.File is set the log is appended
// to that file and the returned closer closes it; otherwise the logger
// writes to fallback and the closer is a no-op.
func Open(cfg seek.LogConfig, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return New(cfg, fallback), nopCloser{}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(cfg, f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorHandler writes one line per record:
//
//	15:04:05 INF message key=value
type ColorHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	prefix string // dotted group path for attribute keys

	time, key, debug, info, warn, fail *color.Color
}

// NewColorHandler creates a ColorHandler. With colors false the same layout
// is written without escape sequences.
func NewColorHandler(w io.Writer, level slog.Level, colors bool) *ColorHandler {
	h := &ColorHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		time:  color.New(color.FgHiBlack),
		key:   color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgCyan),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{h.time, h.key, h.debug, h.info, h.warn, h.fail} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.time.Sprint(r.Time.Format("15:04:05")))
	buf.WriteString(" ")

	switch {
	case r.Level >= slog.LevelError:
		buf.WriteString(h.fail.Sprint("ERR"))
	case r.Level >= slog.LevelWarn:
		buf.WriteString(h.warn.Sprint("WRN"))
	case r.Level >= slog.LevelInfo:
		buf.WriteString(h.info.Sprint("INF"))
	default:
		buf.WriteString(h.debug.Sprint("DBG"))
	}
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	// Handler attrs already carry their group prefix.
	for _, a := range h.attrs {
		h.writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *ColorHandler) writeAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, p, ga)
		}
		return
	}
	buf.WriteString(" ")
	buf.WriteString(h.key.Sprint(prefix + a.Key + "="))
	buf.WriteString(a.Value.String())
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(h2.attrs, h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &h2
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}
