package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/babarot/kuzukago/internal/utils/shell"
	"github.com/go-playground/validator/v10"
)

var sizeRe = regexp.MustCompile(`^\d+(B|KB|MB|GB|TB|PB|KIB|MIB|GIB)?$`)

// validateSize validates the size format (e.g., "10MB", "1GB")
func validateSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return sizeRe.MatchString(value)
}

// expandPath expands environment variables and "~" in paths
func expandPath(path string) (string, error) {
	return shell.ExpandPath(path)
}

// validateDirPath is a validation function for directory paths that works on any OS.
// The standard "dirpath" validator in go-playground/validator marks some valid
// Windows paths as invalid, e.g. "C:\Users\name\.dir".
//
// Empty strings are considered invalid.
func validateDirPath(fl validator.FieldLevel) bool {
	path := strings.TrimSpace(fl.Field().String())
	if path == "" {
		return false
	}

	expanded, err := expandPath(path)
	if err != nil {
		return false
	}

	// If path exists, verify that it is a directory
	if fi, err := os.Stat(expanded); err == nil {
		return fi.IsDir()
	} else if os.IsNotExist(err) {
		// Path doesn't exist but format is valid
		return true
	} else if _, ok := err.(*os.PathError); ok {
		// Path error indicates possible OS constraint violation
		return false
	}

	return true
}
