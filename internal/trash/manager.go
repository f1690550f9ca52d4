package trash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// maxRenameAttempts bounds the numeric suffixes tried under CollisionRename
const maxRenameAttempts = 10000

// Manager runs the lifecycle of trashed items: Trash, Restore and Purge.
// It is safe for concurrent use. Calls on the same logical name are
// serialized; calls on distinct names run in parallel.
type Manager struct {
	store  *Store
	mover  *Mover
	config Config
	locks  *keyedLocker
	logger *slog.Logger
	now    func() time.Time
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for deletion dates
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new trash manager with the given configuration.
// The store root is created lazily by the first Trash.
func NewManager(cfg Config, opts ...ManagerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m := &Manager{
		store:  NewStore(cfg.TrashDir),
		mover:  NewMover(cfg.BufferSize),
		config: cfg,
		locks:  newKeyedLocker(),
		logger: discardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.store.logger = m.logger
	m.mover.logger = m.logger

	m.logger.Debug("trash manager initialized",
		"root", cfg.TrashDir,
		"collision", cfg.Collision,
		"buffer", cfg.BufferSize)
	return m, nil
}

// Store returns the underlying store
func (m *Manager) Store() *Store {
	return m.store
}

// Exists reports whether name is currently in trash
func (m *Manager) Exists(name string) bool {
	return m.store.Exists(name)
}

// Trash moves src into the store under a logical name derived from its
// display name.
//
// On a partial failure (bytes stored, origin not deleted) both the item and
// an error matching ErrSourceDeleteFailed are returned.
func (m *Manager) Trash(ctx context.Context, src Source) (*Item, error) {
	name := src.DisplayName()
	if err := validName(name); err != nil {
		return nil, NewStorageError("trash", name, wrapKind(ErrSourceUnreadable, err))
	}
	if p := originOf(src); p != "" && (isWithin(p, m.store.Root()) || isWithin(m.store.Root(), p)) {
		return nil, NewStorageError("trash", p, wrapKind(ErrSourceUnreadable, errors.New("source overlaps the trash directory")))
	}

	if err := m.store.EnsureRoot(); err != nil {
		return nil, NewStorageError("trash", name, err)
	}

	name, unlock, err := m.reserve(ctx, name)
	if err != nil {
		return nil, NewStorageError("trash", src.DisplayName(), err)
	}
	defer unlock()

	info := &TrashInfo{
		Path:         originOf(src),
		DeletionDate: m.now(),
	}
	if err := m.store.writeInfo(name, info); err != nil {
		return nil, NewStorageError("trash", name, classify(err, ErrDestinationWriteFailed))
	}

	moveErr := m.mover.MoveOrCopy(ctx, src, m.store.PathFor(name))
	if moveErr != nil && !IsSourceDeleteFailed(moveErr) {
		m.store.RemoveInfo(name)
		return nil, NewStorageError("trash", name, moveErr)
	}

	item, err := m.store.Get(name)
	if err != nil {
		return nil, NewStorageError("trash", name, err)
	}

	m.logger.Debug("trashed", "name", name, "from", info.Path, "partial", moveErr != nil)
	if moveErr != nil {
		return item, NewStorageError("trash", name, moveErr)
	}
	return item, nil
}

// TrashAll trashes every source concurrently. Results line up with sources;
// failed entries are nil and their errors are joined.
func (m *Manager) TrashAll(ctx context.Context, sources []Source) ([]*Item, error) {
	items := make([]*Item, len(sources))
	errs := make([]error, len(sources))

	var eg errgroup.Group
	eg.SetLimit(m.config.Concurrency)
	for i, src := range sources {
		eg.Go(func() error {
			items[i], errs[i] = m.Trash(ctx, src)
			return nil
		})
	}
	_ = eg.Wait()

	return items, errors.Join(errs...)
}

// Restore moves the item stored under name into destDir, keeping its
// logical name. An empty destDir restores to the recorded original path.
// An existing file at the target is never replaced.
//
// On a partial failure the restored path is returned along with an error
// matching ErrSourceDeleteFailed; the item then stays in trash.
func (m *Manager) Restore(ctx context.Context, name, destDir string) (string, error) {
	if err := validName(name); err != nil {
		return "", NewStorageError("restore", name, wrapKind(ErrNotFound, err))
	}

	unlock, err := m.locks.Lock(ctx, name)
	if err != nil {
		return "", NewStorageError("restore", name, err)
	}
	defer unlock()

	item, err := m.store.Get(name)
	if err != nil {
		return "", NewStorageError("restore", name, err)
	}

	dst, err := restoreTarget(item, destDir)
	if err != nil {
		return "", NewStorageError("restore", name, err)
	}

	if _, err := os.Lstat(dst); err == nil {
		return "", NewStorageError("restore", dst, ErrDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", NewStorageError("restore", dst, classify(err, ErrDestinationWriteFailed))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", NewStorageError("restore", dst, classify(err, ErrDestinationWriteFailed))
	}

	src := &FileSource{Path: item.TrashPath, Name: name}
	if err := m.mover.MoveOrCopy(ctx, src, dst); err != nil {
		if IsSourceDeleteFailed(err) {
			return dst, NewStorageError("restore", name, err)
		}
		return "", NewStorageError("restore", name, err)
	}

	m.store.RemoveInfo(name)
	m.logger.Debug("restored", "name", name, "to", dst)
	return dst, nil
}

// Purge permanently deletes the item stored under name
func (m *Manager) Purge(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return NewStorageError("purge", name, wrapKind(ErrNotFound, err))
	}

	unlock, err := m.locks.Lock(ctx, name)
	if err != nil {
		return NewStorageError("purge", name, err)
	}
	defer unlock()

	if err := m.store.Remove(name); err != nil {
		return NewStorageError("purge", name, err)
	}

	m.logger.Debug("purged", "name", name)
	return nil
}

// Get returns the item stored under name
func (m *Manager) Get(name string) (*Item, error) {
	return m.store.Get(name)
}

// List returns the items in trash, oldest first
func (m *Manager) List() ([]*Item, error) {
	return m.store.List()
}

// Names returns the logical names currently in trash
func (m *Manager) Names() ([]string, error) {
	items, err := m.store.List()
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(it *Item, _ int) string {
		return it.Name
	}), nil
}

// PruneOrphans removes sidecars left behind by payloads that no longer exist
// and returns their names.
func (m *Manager) PruneOrphans(ctx context.Context) ([]string, error) {
	names, err := m.store.Orphans()
	if err != nil {
		return nil, err
	}

	var (
		pruned []string
		errs   []error
	)
	for _, name := range names {
		unlock, ok := m.locks.TryLock(name)
		if !ok {
			// busy: an operation on this name is writing its sidecar
			continue
		}
		// re-check under the lock
		if !m.store.Exists(name) {
			if err := m.store.RemoveInfo(name); err != nil {
				errs = append(errs, err)
			} else {
				pruned = append(pruned, name)
			}
		}
		unlock()
		if err := ctx.Err(); err != nil {
			return pruned, err
		}
	}
	return pruned, errors.Join(errs...)
}

// reserve picks the logical name for a new item and locks it.
// The returned name is free in the store while the lock is held.
func (m *Manager) reserve(ctx context.Context, name string) (string, func(), error) {
	if m.config.Collision == CollisionReject {
		unlock, err := m.locks.Lock(ctx, name)
		if err != nil {
			return "", nil, err
		}
		if m.store.Exists(name) {
			unlock()
			return "", nil, ErrNameCollision
		}
		return name, unlock, nil
	}

	for i := 0; i < maxRenameAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		candidate := candidateName(name, i)
		var unlock func()
		if i == 0 {
			// the name itself may be freed by a restore or purge in flight
			u, err := m.locks.Lock(ctx, candidate)
			if err != nil {
				return "", nil, err
			}
			unlock = u
		} else {
			u, ok := m.locks.TryLock(candidate)
			if !ok {
				continue
			}
			unlock = u
		}
		if m.store.Exists(candidate) {
			unlock()
			continue
		}
		if i > 0 {
			m.logger.Debug("name taken, renamed", "name", name, "as", candidate)
		}
		return candidate, unlock, nil
	}
	return "", nil, fmt.Errorf("%w: no free name after %d attempts", ErrNameCollision, maxRenameAttempts)
}

// candidateName returns name for n == 0 and "<stem>_<n><ext>" otherwise.
// The stem is shortened so that the result fits in maxNameLen bytes.
func candidateName(name string, n int) string {
	if n == 0 {
		return name
	}
	suffix := fmt.Sprintf("_%d", n)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" || len(ext)+len(suffix) >= maxNameLen {
		// dotfile such as ".bashrc"
		stem, ext = name, ""
	}
	return truncateName(stem, maxNameLen-len(suffix)-len(ext)) + suffix + ext
}

func restoreTarget(item *Item, destDir string) (string, error) {
	if destDir != "" {
		return filepath.Join(destDir, item.Name), nil
	}
	if item.OriginalPath == "" || !filepath.IsAbs(item.OriginalPath) {
		return "", wrapKind(ErrNotFound, fmt.Errorf("original location of %s is unknown", item.Name))
	}
	return item.OriginalPath, nil
}

func isWithin(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
