package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestComponentJSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeTo(&buf, "debug", true)
	t.Cleanup(func() { Initialize("info", false) })

	Component("team_directory").Info("refreshed", "members", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "team_directory", entry["component"])
	assert.Equal(t, "refreshed", entry["msg"])
	assert.EqualValues(t, 3, entry["members"])
}
