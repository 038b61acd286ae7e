package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the console colors. Every field is nil when the writer is
// not a color terminal, and paint passes text through unchanged.
type palette struct {
	time, key       *color.Color
	trace, debug    *color.Color
	info, warn, err *color.Color
}

func newPalette(w io.Writer) palette {
	if !SupportsColor(w) {
		return palette{}
	}
	return palette{
		time:  color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
		trace: color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
	}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (p palette) level(l slog.Level) string {
	label := fmt.Sprintf("%-5s", levelLabel(l))
	switch {
	case l >= slog.LevelError:
		return paint(p.err, label)
	case l >= slog.LevelWarn:
		return paint(p.warn, label)
	case l >= slog.LevelInfo:
		return paint(p.info, label)
	case l > LevelTrace:
		return paint(p.debug, label)
	default:
		return paint(p.trace, label)
	}
}

// ConsoleHandler writes one line per record for humans reading a terminal:
//
//	3:04PM INFO  wrote schema appid=480 path=/home/…/UserGameStatsSchema_480.bin
//
// Keys matching the secret list are masked before they are printed.
type ConsoleHandler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	colors palette

	// preformatted holds the rendered WithAttrs pairs, prefix the dotted group path.
	preformatted []byte
	prefix       string
}

// NewConsoleHandler returns a handler writing to out at level or above. A nil
// level means Info.
func NewConsoleHandler(out io.Writer, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{
		level:  level,
		out:    out,
		mu:     &sync.Mutex{},
		colors: newPalette(out),
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	if !r.Time.IsZero() {
		buf.WriteString(paint(h.colors.time, r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.colors.level(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.preformatted)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *ConsoleHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, inner, ga)
		}
		return
	}
	key := paint(h.colors.key, prefix+a.Key)
	fmt.Fprintf(buf, " %s=%v", key, redact(a.Key, a.Value.Any()))
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	buf := bytes.NewBuffer(append([]byte(nil), h.preformatted...))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}
	c.preformatted = buf.Bytes()
	return &c
}

// WithGroup renders subsequent keys as group.key.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// levelLabel renders LevelTrace as TRACE instead of slog's "DEBUG-4".
func levelLabel(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}
