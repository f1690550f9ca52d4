package fs

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// IsUnsafePath reports whether path must never be trashed: anything ending
// in "." or "..", the filesystem root, and "//"-prefixed paths, which some
// systems resolve to network roots.
func IsUnsafePath(path string) (bool, error) {
	switch filepath.Base(path) {
	case ".", "..":
		return true, nil
	}
	return filepath.Clean(path) == "/" || strings.HasPrefix(path, "//"), nil
}

// DirSize returns the total size in bytes of the regular files under path.
// For a file it returns the file's own size. Symlinks are not followed.
func DirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
