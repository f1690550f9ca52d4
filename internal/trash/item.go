package trash

import (
	"io/fs"
	"os"
	"time"
)

// Item is an entry currently held in trash
type Item struct {
	// Name is the logical name, unique within the store
	Name string

	// TrashPath is the absolute path where the item is stored in trash
	TrashPath string

	// OriginalPath is where the item came from. Empty when unknown
	// (stream sources without a URI, or a missing sidecar).
	OriginalPath string

	// DeletedAt is when the item was moved to trash
	DeletedAt time.Time

	// Size is the size in bytes (the payload size for directories as reported by stat)
	Size int64

	// IsDir indicates if this is a directory
	IsDir bool

	// FileMode is the mode of the stored payload
	FileMode fs.FileMode
}

// Exists checks if the item still exists in the trash
func (i *Item) Exists() bool {
	_, err := os.Lstat(i.TrashPath)
	return err == nil
}

// RequiresAdmin returns true if administrator privileges are required
// to restore or remove this item
func (i *Item) RequiresAdmin() bool {
	info, err := os.Lstat(i.TrashPath)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0200 == 0
}

func (i *Item) GetName() string {
	return i.Name
}

func (i *Item) GetPath() string {
	return i.TrashPath
}

func (i *Item) GetDeletedAt() time.Time {
	return i.DeletedAt
}
