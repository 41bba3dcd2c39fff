package logger

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

	"github.com/coachhub/coachhub/internal/shared/config"
)

func TestSourceHandler_SourceByLevel(t *testing.T) {
	tests := []struct {
		name       string
		log        func(l *slog.Logger)
		wantSource bool
	}{
		{"info has no source", func(l *slog.Logger) { l.Info("booking synced") }, false},
		{"warn has source", func(l *slog.Logger) { l.Warn("token refresh retried") }, true},
		{"error has source", func(l *slog.Logger) { l.Error("breaker open") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			tt.log(slog.New(WithSourceFrom(base, slog.LevelWarn)))

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="), buf.String())
		})
	}
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(WithSourceFrom(base, slog.LevelError)).
		With("coach_id", "01HZX").
		WithGroup("sync")
	l.Info("done", "created", 2)

	out := buf.String()
	assert.Contains(t, out, "coach_id=01HZX")
	assert.Contains(t, out, "sync.created=2")
	assert.NotContains(t, out, "source=")
}

func TestSourceHandler_Enabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := WithSourceFrom(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestInit_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	err := Init(&config.LoggerConfig{Level: "warn", Format: "json", OutputPath: path}, "release")
	require.NoError(t, err)
	t.Cleanup(reset)

	NewLogger().Infow("dropped", "k", "v")
	NewLogger().Named("tokens").Warnw("refresh slow", "provider", "calcom")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "refresh slow", rec["msg"])
	assert.Equal(t, "tokens", rec["logger"])
	assert.Equal(t, "calcom", rec["provider"])
	assert.Contains(t, rec, "source")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
