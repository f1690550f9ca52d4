//go:build !windows

package trash

import (
	"fmt"
	"os"
	"syscall"
)

// isSamePartition checks if src and the directory dstDir reside on the same filesystem
func isSamePartition(src, dstDir string) (bool, error) {
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return false, fmt.Errorf("failed to get source file stats: %w", err)
	}

	dstInfo, err := os.Stat(dstDir)
	if err != nil {
		return false, fmt.Errorf("failed to get destination directory stats: %w", err)
	}

	srcSys, ok := srcInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, fmt.Errorf("failed to get source system info")
	}

	dstSys, ok := dstInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, fmt.Errorf("failed to get destination system info")
	}

	return srcSys.Dev == dstSys.Dev, nil
}
