package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	filesDirName = "files"
	infoDirName  = "info"

	stagingPrefix = ".kzk-"
	stagingSuffix = ".tmp"

	// maxNameLen is the longest file name, in bytes, most filesystems accept
	maxNameLen = 255
)

// Store is the holding area on disk.
//
//	<root>/files/<name>           payload, one per logical name
//	<root>/info/<name>.trashinfo  optional sidecar
//
// A name too long to take the extension gets a sidecar keyed by a truncated
// prefix and a name-based UUID, with the full name recorded inside.
//
// The files directory is the index: a name is in trash iff its payload exists.
type Store struct {
	root     string
	filesDir string
	infoDir  string
	logger   *slog.Logger
}

// NewStore returns a store rooted at root. Nothing is created until EnsureRoot.
func NewStore(root string) *Store {
	return &Store{
		root:     root,
		filesDir: filepath.Join(root, filesDirName),
		infoDir:  filepath.Join(root, infoDirName),
		logger:   discardLogger(),
	}
}

// Root returns the root directory of the store
func (s *Store) Root() string {
	return s.root
}

// FilesDir returns the directory holding payloads
func (s *Store) FilesDir() string {
	return s.filesDir
}

// EnsureRoot creates the store directories if they don't exist and checks
// that the medium accepts writes.
func (s *Store) EnsureRoot() error {
	for _, dir := range []string{s.filesDir, s.infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return NewStorageError("ensure-root", s.root, wrapKind(ErrStorageUnavailable, err))
		}
	}

	if err := checkMounted(s.root); err != nil {
		return NewStorageError("ensure-root", s.root, wrapKind(ErrStorageUnavailable, err))
	}

	probe, err := os.CreateTemp(s.filesDir, stagingPrefix+"probe-*"+stagingSuffix)
	if err != nil {
		return NewStorageError("ensure-root", s.root, wrapKind(ErrStorageUnavailable, err))
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// PathFor maps a logical name to its payload location. The path may not exist.
func (s *Store) PathFor(name string) string {
	return filepath.Join(s.filesDir, name)
}

// InfoPathFor maps a logical name to its sidecar location
func (s *Store) InfoPathFor(name string) string {
	return filepath.Join(s.infoDir, infoFileName(name))
}

func infoFileName(name string) string {
	if !keyedInfo(name) {
		return name + infoExt
	}
	key := "~" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
	return truncateName(name, maxNameLen-len(key)-len(infoExt)) + key + infoExt
}

func keyedInfo(name string) bool {
	return len(name)+len(infoExt) > maxNameLen
}

// truncateName cuts s to at most n bytes without splitting a UTF-8 sequence
func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Exists reports whether name currently occupies the store
func (s *Store) Exists(name string) bool {
	if validName(name) != nil {
		return false
	}
	_, err := os.Lstat(s.PathFor(name))
	return err == nil
}

// Get returns the item stored under name
func (s *Store) Get(name string) (*Item, error) {
	if err := validName(name); err != nil {
		return nil, NewStorageError("get", name, wrapKind(ErrNotFound, err))
	}
	fi, err := os.Lstat(s.PathFor(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("get", name, ErrNotFound)
		}
		return nil, NewStorageError("get", name, classify(err, ErrNotFound))
	}
	return s.item(name, fi), nil
}

// Remove permanently deletes the payload stored under name along with its sidecar
func (s *Store) Remove(name string) error {
	if err := validName(name); err != nil {
		return NewStorageError("remove", name, wrapKind(ErrNotFound, err))
	}
	p := s.PathFor(name)
	if _, err := os.Lstat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStorageError("remove", name, ErrNotFound)
		}
		return NewStorageError("remove", name, classify(err, ErrPermissionDenied))
	}

	if err := os.RemoveAll(p); err != nil {
		return NewStorageError("remove", name, classify(err, ErrPermissionDenied))
	}

	s.RemoveInfo(name)
	return nil
}

// List returns every item in the store, oldest first.
// A missing root is an empty trash.
func (s *Store) List() ([]*Item, error) {
	entries, err := os.ReadDir(s.filesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, NewStorageError("list", s.root, classify(err, ErrStorageUnavailable))
	}

	items := make([]*Item, 0, len(entries))
	for _, entry := range entries {
		if isStagingName(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// removed since ReadDir
			continue
		}
		items = append(items, s.item(entry.Name(), fi))
	}

	slices.SortStableFunc(items, func(a, b *Item) int {
		return a.DeletedAt.Compare(b.DeletedAt)
	})
	return items, nil
}

// Orphans returns the names of sidecars whose payload is gone
func (s *Store) Orphans() ([]string, error) {
	entries, err := os.ReadDir(s.infoDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, NewStorageError("orphans", s.root, classify(err, ErrStorageUnavailable))
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), infoExt) {
			continue
		}
		// mac resource fork
		if strings.HasPrefix(entry.Name(), "._") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), infoExt)
		if info, err := loadInfo(filepath.Join(s.infoDir, entry.Name())); err == nil && info.Name != "" {
			name = info.Name
		}
		if _, err := os.Lstat(s.PathFor(name)); errors.Is(err, fs.ErrNotExist) {
			names = append(names, name)
		}
	}
	return names, nil
}

// RemoveInfo drops the sidecar of name. A missing sidecar is not an error.
func (s *Store) RemoveInfo(name string) error {
	err := os.Remove(s.InfoPathFor(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove trash info", "name", name, "error", err)
		return NewStorageError("remove-info", name, classify(err, ErrPermissionDenied))
	}
	return nil
}

// CleanupStaging removes leftovers of interrupted copies and sidecar writes
// older than olderThan
func (s *Store) CleanupStaging(olderThan time.Duration) error {
	var errs []error
	for _, dir := range []string{s.filesDir, s.infoDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return NewStorageError("cleanup", s.root, classify(err, ErrStorageUnavailable))
		}
		for _, entry := range entries {
			if !isStagingName(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if time.Since(info.ModTime()) > olderThan {
				p := filepath.Join(dir, entry.Name())
				if err := os.RemoveAll(p); err != nil {
					errs = append(errs, fmt.Errorf("cleanup %s: %w", p, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Store) writeInfo(name string, info *TrashInfo) error {
	if keyedInfo(name) {
		rec := *info
		rec.Name = name
		info = &rec
	}
	return info.Save(s.InfoPathFor(name))
}

func (s *Store) item(name string, fi fs.FileInfo) *Item {
	it := &Item{
		Name:      name,
		TrashPath: s.PathFor(name),
		DeletedAt: fi.ModTime(),
		Size:      fi.Size(),
		IsDir:     fi.IsDir(),
		FileMode:  fi.Mode(),
	}
	info, err := loadInfo(s.InfoPathFor(name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("ignoring unreadable trash info", "name", name, "error", err)
		}
		return it
	}
	it.OriginalPath = info.Path
	it.DeletedAt = info.DeletionDate
	return it
}

// validName checks that name is usable as a single entry of the files directory
func validName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("name %q must not contain path separators", name)
	case isStagingName(name):
		return fmt.Errorf("name %q is reserved", name)
	}
	return nil
}

func isStagingName(name string) bool {
	return strings.HasPrefix(name, stagingPrefix) && strings.HasSuffix(name, stagingSuffix)
}
