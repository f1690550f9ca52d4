package shell

import (
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	testHome := "/test/home/user"
	t.Setenv("HOME", testHome)
	t.Setenv("KUZUKAGO_TEST_DIR", "/srv/trash")

	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Tilde expansion",
			input:    "~/test",
			expected: testHome + "/test",
		},
		{
			name:     "Single tilde",
			input:    "~",
			expected: testHome,
		},
		{
			name:     "Tilde in the middle is kept",
			input:    "/tmp/~/x",
			expected: "/tmp/~/x",
		},
		{
			name:     "Environment variable expansion",
			input:    "$KUZUKAGO_TEST_DIR/files",
			expected: "/srv/trash/files",
		},
		{
			name:     "Braced environment variable expansion",
			input:    "${KUZUKAGO_TEST_DIR}/files",
			expected: "/srv/trash/files",
		},
		{
			name:     "Undefined environment variable",
			input:    "$KUZUKAGO_UNDEFINED_VAR/test",
			expected: "/test",
		},
		{
			name:    "Unclosed brace",
			input:   "${HOME/test",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ExpandHome(tc.input)

			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/test/home/user")

	got, err := ExpandPath("~/a/../b")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := filepath.Clean("/test/home/user/b"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
