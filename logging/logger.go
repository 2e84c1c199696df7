// Package logging provides leveled logging and per-frame tracing for
// forcefield. It offers two outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A FrameTrace writing one JSON line per simulated frame
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level every frame
// is logged.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FrameTrace appends frame reports to a JSONL file. A nil FrameTrace is
// safe to use; every method is a no-op on a nil receiver.
type FrameTrace struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewFrameTrace opens path for append. It returns nil when path is empty
// or the file cannot be opened.
func NewFrameTrace(path string) *FrameTrace {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil
	}
	return &FrameTrace{w: f}
}

// Log writes event as a single line with a "time" field added. The
// caller's map is not mutated.
func (ft *FrameTrace) Log(event map[string]any) {
	if ft == nil || ft.w == nil {
		return
	}

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	ft.mu.Lock()
	defer ft.mu.Unlock()
	_, _ = ft.w.Write(data)
}

// Close closes the underlying file
func (ft *FrameTrace) Close() error {
	if ft == nil || ft.w == nil {
		return nil
	}
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.w.Close()
}
