//go:build !windows

package trash

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// checkMounted fails when the filesystem holding path is mounted read-only.
// Lookup failures are not fatal; the write probe in EnsureRoot still runs.
func checkMounted(path string) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}

	mounts, err := mountinfo.GetMounts(mountinfo.ParentsFilter(real))
	if err != nil || len(mounts) == 0 {
		return nil
	}

	// The deepest parent is the mount the path lives on
	m := mounts[0]
	for _, candidate := range mounts[1:] {
		if len(candidate.Mountpoint) > len(m.Mountpoint) {
			m = candidate
		}
	}

	if hasOption(m.Options, "ro") || hasOption(m.VFSOptions, "ro") {
		return fmt.Errorf("%s is mounted read-only", m.Mountpoint)
	}
	return nil
}

func hasOption(opts, want string) bool {
	for _, opt := range strings.Split(opts, ",") {
		if opt == want {
			return true
		}
	}
	return false
}
