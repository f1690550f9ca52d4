package trash

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfo(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantPath string
		wantDate time.Time
		wantErr  bool
	}{
		{
			name:     "complete record",
			input:    "[Trash Info]\nPath=/home/user/notes.txt\nDeletionDate=2024-02-03T04:05:06\n",
			wantPath: "/home/user/notes.txt",
			wantDate: time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local),
		},
		{
			name:     "escaped path with comments and blank lines",
			input:    "# written by hand\n\n[Trash Info]\nPath=/tmp/with%20space/caf%C3%A9.txt\nDeletionDate=2024-02-03T04:05:06\n",
			wantPath: "/tmp/with space/café.txt",
			wantDate: time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local),
		},
		{
			name:     "path is optional",
			input:    "[Trash Info]\nDeletionDate=2024-02-03T04:05:06\n",
			wantDate: time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local),
		},
		{
			name:    "missing header",
			input:   "Path=/a\nDeletionDate=2024-02-03T04:05:06\n",
			wantErr: true,
		},
		{
			name:    "missing date",
			input:   "[Trash Info]\nPath=/a\n",
			wantErr: true,
		},
		{
			name:    "bad date",
			input:   "[Trash Info]\nDeletionDate=yesterday\n",
			wantErr: true,
		},
		{
			name:    "bad escape",
			input:   "[Trash Info]\nPath=/a%zz\nDeletionDate=2024-02-03T04:05:06\n",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := ParseInfo(strings.NewReader(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, info.Path)
			assert.True(t, tc.wantDate.Equal(info.DeletionDate), "got %v", info.DeletionDate)
		})
	}
}

func TestTrashInfoWriteTo(t *testing.T) {
	info := &TrashInfo{
		Path:         "/tmp/with space/a.txt",
		DeletionDate: time.Date(2024, 12, 31, 23, 59, 58, 0, time.Local),
	}

	var b strings.Builder
	n, err := info.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)
	assert.Equal(t, "[Trash Info]\nPath=/tmp/with%20space/a.txt\nDeletionDate=2024-12-31T23:59:58\n", b.String())
}

func TestTrashInfoSaveAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.trashinfo")
	first := &TrashInfo{Path: "content://downloads/1", DeletionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)}
	second := &TrashInfo{Path: "/home/user/x", DeletionDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)}

	require.NoError(t, first.Save(p))
	loaded, err := loadInfo(p)
	require.NoError(t, err)
	assert.Equal(t, first.Path, loaded.Path)

	require.NoError(t, second.Save(p))
	loaded, err = loadInfo(p)
	require.NoError(t, err)
	assert.Equal(t, second.Path, loaded.Path)
	assert.True(t, second.DeletionDate.Equal(loaded.DeletionDate))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(p), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
