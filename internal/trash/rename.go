package trash

import (
	"errors"
	"io/fs"
	"os"
)

// renameChecked is the portable fallback of renameNoReplace. The existence
// check and the rename are not atomic; callers hold the per-name lock.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
