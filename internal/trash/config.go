package trash

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// CollisionPolicy decides what Trash does when the logical name is taken
type CollisionPolicy string

const (
	// CollisionReject fails with ErrNameCollision
	CollisionReject CollisionPolicy = "reject"

	// CollisionRename stores the item under "<stem>_<n><ext>"
	CollisionRename CollisionPolicy = "rename"
)

// Config holds the configuration of a Manager
type Config struct {
	// TrashDir is the root of the store. Must be absolute.
	TrashDir string

	// Collision is the policy applied when trashing an existing name
	Collision CollisionPolicy

	// BufferSize is the chunk size of streamed copies in bytes
	BufferSize int

	// Concurrency bounds TrashAll. Zero means GOMAXPROCS.
	Concurrency int
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig(trashDir string) *Config {
	return &Config{
		TrashDir:   trashDir,
		Collision:  CollisionRename,
		BufferSize: DefaultBufferSize,
	}
}

// Validate checks if the configuration is valid, filling in defaults
func (c *Config) Validate() error {
	if c.TrashDir == "" {
		return fmt.Errorf("trash directory is not set")
	}
	if !filepath.IsAbs(c.TrashDir) {
		return fmt.Errorf("trash directory must be an absolute path: %s", c.TrashDir)
	}

	switch c.Collision {
	case "":
		c.Collision = CollisionRename
	case CollisionReject, CollisionRename:
	default:
		return fmt.Errorf("unknown collision policy: %q", c.Collision)
	}

	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.GOMAXPROCS(0)
	}
	return nil
}
