// Package logging provides the slog-based logging stack for strata:
// a TTY color handler for console output, a JSON option for log files,
// and fan-out across both.
package logging

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText is the human-readable console encoding.
	FormatText Format = "text"
	// FormatJSON is the machine-readable encoding used for log files.
	FormatJSON Format = "json"
)

// Config describes one logger.
type Config struct {
	// Level is the minimum level; records below it are dropped.
	Level slog.Level

	// Format selects the encoding. Unrecognized values fall back to text.
	Format Format

	// Output receives the records. Nil means os.Stderr.
	Output io.Writer
}

// New builds a logger from the config.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = NewHandler(out, opts)
	}
	return slog.New(handler)
}

// NewDiscard returns a logger that drops everything. It is the compiler's
// default so library use stays silent unless a logger is injected.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForTest returns a debug-level logger routed through t.Log, so compile
// logs show up only for failing or verbose test runs.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Output: testWriter{t},
	})
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	w.t.Log(msg)
	return len(p), nil
}
