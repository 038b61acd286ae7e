package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// Format selects how log records are rendered on the console.
type Format string

const (
	// FormatText is the colored, human-oriented format.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates a --log-format value other than text or json.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseFormat validates a --log-format value. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q (want text or json)", s)
	}
}

// Options describes the logger for one command run.
type Options struct {
	// Level is the minimum level written to every sink.
	Level slog.Level
	// Format applies to Console only.
	Format Format
	// Console receives the interactive log stream. Nil means os.Stderr.
	Console io.Writer
	// File, when set, additionally receives every record as JSON.
	File io.Writer
}

// New builds a logger from opts. Secrets such as the Web API key are
// masked in every sink, including JSON.
func New(opts Options) *slog.Logger {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var h slog.Handler
	if opts.Format == FormatJSON {
		h = newJSONHandler(console, opts.Level)
	} else {
		h = NewConsoleHandler(console, opts.Level)
	}
	if opts.File != nil {
		h = fanout{h, newJSONHandler(opts.File, opts.Level)}
	}
	return slog.New(h)
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	})
}

// testWriter sends each record to t.Log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Debug-level logger that writes through t.Log, so
// output shows up only for failing tests or with -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Options{
		Level:   slog.LevelDebug,
		Format:  FormatText,
		Console: &testWriter{t: t},
	})
}
