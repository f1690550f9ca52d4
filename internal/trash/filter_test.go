package trash

import (
	"fmt"
	"testing"
	"time"

	"github.com/babarot/kuzukago/internal/config"
)

// TestItem is a mock implementation of Filterable for testing
type TestItem struct {
	name      string
	path      string
	deletedAt time.Time
}

func (t TestItem) GetName() string         { return t.name }
func (t TestItem) GetPath() string         { return t.path }
func (t TestItem) GetDeletedAt() time.Time { return t.deletedAt }

var filterNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func createTestItems() []TestItem {
	return []TestItem{
		{name: "file1.txt", path: "/trash/file1.txt", deletedAt: filterNow.Add(-24 * time.Hour)},
		{name: "file2.log", path: "/trash/file2.log", deletedAt: filterNow.Add(-48 * time.Hour)},
		{name: "important.txt", path: "/trash/important.txt", deletedAt: filterNow.Add(-72 * time.Hour)},
		{name: "temp.tmp", path: "/trash/temp.tmp", deletedAt: filterNow.Add(-96 * time.Hour)},
	}
}

func mockDirSize(path string) (int64, error) {
	sizemap := map[string]int64{
		"/trash/file1.txt":     100,    // 100 bytes
		"/trash/file2.log":     1024,   // 1 KB
		"/trash/important.txt": 10240,  // 10 KB
		"/trash/temp.tmp":      102400, // 100 KB
	}
	size, exists := sizemap[path]
	if !exists {
		return 0, fmt.Errorf("path not found in mock")
	}
	return size, nil
}

func names[T Filterable](items []T) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.GetName())
	}
	return out
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRejectBySize(t *testing.T) {
	items := createTestItems()

	testCases := []struct {
		name       string
		sizeConfig config.SizeConfig
		expected   []string
	}{
		{
			name:       "No size filter",
			sizeConfig: config.SizeConfig{},
			expected:   []string{"file1.txt", "file2.log", "important.txt", "temp.tmp"},
		},
		{
			name:       "Filter by min size",
			sizeConfig: config.SizeConfig{Min: "1KB"},
			expected:   []string{"file2.log", "important.txt", "temp.tmp"},
		},
		{
			name:       "Filter by max size",
			sizeConfig: config.SizeConfig{Max: "10KB"},
			expected:   []string{"file1.txt", "file2.log"},
		},
		{
			name:       "Filter by both min and max size",
			sizeConfig: config.SizeConfig{Min: "1KB", Max: "20KB"},
			expected:   []string{"file2.log", "important.txt"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := names(rejectBySize(items, tc.sizeConfig, mockDirSize))
			if !equalNames(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	items := createTestItems()

	testCases := []struct {
		name     string
		opts     FilterOptions
		expected []string
	}{
		{
			name:     "No filters",
			opts:     FilterOptions{},
			expected: []string{"file1.txt", "file2.log", "important.txt", "temp.tmp"},
		},
		{
			name:     "Exclude by name",
			opts:     FilterOptions{Exclude: config.ExcludeConfig{Files: []string{"important.txt"}}},
			expected: []string{"file1.txt", "file2.log", "temp.tmp"},
		},
		{
			name:     "Exclude by pattern",
			opts:     FilterOptions{Exclude: config.ExcludeConfig{Patterns: []string{`^temp`, `[`}}},
			expected: []string{"file1.txt", "file2.log", "important.txt"},
		},
		{
			name:     "Exclude by glob",
			opts:     FilterOptions{Exclude: config.ExcludeConfig{Globs: []string{"*.txt"}}},
			expected: []string{"file2.log", "temp.tmp"},
		},
		{
			name:     "Include by period",
			opts:     FilterOptions{Include: config.IncludeConfig{Period: 2}},
			expected: []string{"file1.txt"},
		},
		{
			name:     "Within duration",
			opts:     FilterOptions{Within: 50 * time.Hour},
			expected: []string{"file1.txt", "file2.log"},
		},
		{
			name: "Combined filters",
			opts: FilterOptions{
				Include: config.IncludeConfig{Period: 5},
				Exclude: config.ExcludeConfig{
					Files:    []string{"important.txt"},
					Patterns: []string{`^temp`},
					Size:     config.SizeConfig{Min: "1KB", Max: "10KB"},
				},
			},
			expected: []string{"file2.log"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := names(filterWith(items, tc.opts, mockDirSize, filterNow))
			if !equalNames(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
