package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debug.log")

	w, err := NewRotateWriter(path, config.LoggingConfig{
		Rotation: config.Rotation{MaxSize: "10B", MaxFiles: 2},
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	for _, line := range []string{"aaaaaa\n", "bbbbbb\n", "cccccc\n", "dddddd\n"} {
		n, err := w.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dddddd\n", string(current))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "debug.log.") {
			backups++
		}
	}
	assert.Equal(t, 2, backups)
}

func TestRotateWriterInvalidSize(t *testing.T) {
	_, err := NewRotateWriter(filepath.Join(t.TempDir(), "debug.log"), config.LoggingConfig{
		Rotation: config.Rotation{MaxSize: "huge"},
	})
	assert.Error(t, err)
}
