package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading "~" and any $VAR or ${VAR} references in
// input. Undefined variables expand to the empty string.
func ExpandHome(input string) (string, error) {
	result := input

	if result == "~" || strings.HasPrefix(result, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "", fmt.Errorf("cannot expand %q: home directory is unknown", input)
		}
		result = home + strings.TrimPrefix(result, "~")
	}

	if strings.Count(result, "${") > strings.Count(result, "}") {
		return "", fmt.Errorf("unclosed variable brace in input: %s", input)
	}

	return os.ExpandEnv(result), nil
}

// ExpandPath is ExpandHome followed by conversion to an absolute, cleaned path
func ExpandPath(input string) (string, error) {
	expanded, err := ExpandHome(input)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
