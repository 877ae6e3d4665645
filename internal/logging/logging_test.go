package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutToTextAndJSON(t *testing.T) {
	var text bytes.Buffer
	file := filepath.Join(t.TempDir(), "lumen.log")

	l, err := New(Options{Level: slog.LevelDebug, Writer: &text, File: file})
	require.NoError(t, err)
	l.Debug("mounted", "path", "/todo")
	require.NoError(t, l.Close())

	assert.Contains(t, text.String(), "msg=mounted path=/todo")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "mounted", rec["msg"])
	assert.Equal(t, "/todo", rec["path"])
}

func TestLevelFilters(t *testing.T) {
	var text bytes.Buffer
	l, err := New(Options{Level: slog.LevelWarn, Writer: &text})
	require.NoError(t, err)
	l.Info("quiet")
	l.Warn("loud")
	assert.NotContains(t, text.String(), "quiet")
	assert.Contains(t, text.String(), "loud")
	assert.NoError(t, l.Close())
}

func TestBadFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
