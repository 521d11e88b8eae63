package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("whatever"))
}

func TestGameLogger_WritesLevelAndMetadata(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gl := logging.NewGameLogger(logger)

	// Act
	gl.Log("WARNING", "turn rejected", map[string]interface{}{"direction": "north"})

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "turn rejected", entry["msg"])
	assert.Equal(t, "north", entry["direction"])
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amalgam.log")
	logger, closer, err := logging.New(config.LoggingConfig{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	logger.Info("session started", "grid_size", 20)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "grid_size=20")
}

func TestNew_RejectsUnknownOutput(t *testing.T) {
	_, _, err := logging.New(config.LoggingConfig{Output: "syslog"})

	assert.Error(t, err)
}
