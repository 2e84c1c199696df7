package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"Trace", LevelTrace},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Debug("hidden")
	logger.Info("shown", "nodes", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "nodes=3")
}

func TestNewLoggerLabelsTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(context.Background(), LevelTrace, "frame")

	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestFrameTraceNilSafe(t *testing.T) {
	var ft *FrameTrace
	ft.Log(map[string]any{"frame": 1})
	assert.NoError(t, ft.Close())
	assert.Nil(t, NewFrameTrace(""))
}

func TestFrameTraceWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace", "frames.jsonl")
	ft := NewFrameTrace(path)
	require.NotNil(t, ft)

	event := map[string]any{"frame": 1, "moved": 2.5}
	ft.Log(event)
	ft.Log(map[string]any{"frame": 2})
	require.NoError(t, ft.Close())

	_, hasTime := event["time"]
	assert.False(t, hasTime, "caller map must not be mutated")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, 1.0, first["frame"])
	assert.Equal(t, 2.5, first["moved"])
	assert.NotEmpty(t, first["time"])
}
