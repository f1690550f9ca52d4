package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowExistingLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

	var buf bytes.Buffer
	require.NoError(t, Logs(&buf, path, config.LoggingConfig{Enabled: true}, false))
	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestShowExistingLogsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	err := Logs(&bytes.Buffer{}, path, config.LoggingConfig{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")

	err = Logs(&bytes.Buffer{}, path, config.LoggingConfig{Enabled: true}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log file")
}

func TestLiveLogsRequireLogging(t *testing.T) {
	err := Logs(&bytes.Buffer{}, filepath.Join(t.TempDir(), "debug.log"), config.LoggingConfig{}, true)
	assert.Error(t, err)
}
