package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// BracketHandler formats slog records as
// [LEVEL] [system] [HH:MM:SS] message key=value.
// The "system" attribute is promoted into its own bracket instead of being
// printed as a key=value pair.
type BracketHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Level
	colors bool
	system string
	attrs  []slog.Attr
}

// NewBracketHandler creates a handler writing to w. Colors are enabled only
// when w is a terminal.
func NewBracketHandler(w io.Writer, opts *slog.HandlerOptions) *BracketHandler {
	h := &BracketHandler{
		w:      w,
		mu:     &sync.Mutex{},
		level:  slog.LevelInfo,
		colors: writerIsTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Enabled implements slog.Handler.
func (h *BracketHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *BracketHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	h.paint(&b, h.levelColor(r.Level), "["+levelName(r.Level)+"]")
	if h.system != "" {
		b.WriteString(" [" + h.system + "]")
	}
	h.paint(&b, ansiGray, " ["+r.Time.Format("15:04:05")+"]")
	b.WriteString(" " + r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *BracketHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Key == "system" {
		return // already shown in its bracket
	}
	fmt.Fprintf(b, " %s=%v", a.Key, a.Value.Any())
}

func (h *BracketHandler) paint(b *strings.Builder, color, s string) {
	if h.colors {
		b.WriteString(color + s + ansiReset)
		return
	}
	b.WriteString(s)
}

// WithAttrs implements slog.Handler, promoting a "system" attr.
func (h *BracketHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	for _, a := range attrs {
		if a.Key == "system" {
			clone.system = a.Value.String()
		}
	}
	return &clone
}

// WithGroup implements slog.Handler. Groups are not rendered.
func (h *BracketHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *BracketHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiCyan
	default:
		return ansiGray
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
