package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/infrastructure/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "chatty", Format: "console"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.log")

	l, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: path})
	require.NoError(t, err)

	l.WithComponent("contacts").LogRecordChange("contacts", "create", "abc", map[string]interface{}{"name": "Ada"})
	_ = l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"create"`)
	assert.Contains(t, string(data), `"component":"contacts"`)
}
