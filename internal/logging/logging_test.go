package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mycv/cvgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvgen.log")
	logger, closer, err := New(config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("cv generated", "style", "modern")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1, "debug record must be filtered at info level")

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "cv generated", record["msg"])
	assert.Equal(t, "modern", record["style"])
}

func TestNew_Stderr(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{Level: "warn", Format: "text"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	slog.New(handler(&buf, "JSON", slog.LevelInfo)).Info("x")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	buf.Reset()
	slog.New(handler(&buf, "text", slog.LevelInfo)).Info("x")
	assert.Contains(t, buf.String(), "msg=x")
}
