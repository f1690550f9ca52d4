package log

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/docker/go-units"
)

const defaultMaxLogSize = 10 * units.MB

// RotateWriter appends to a log file and moves it aside once the next write
// would push it past the size limit. Backups are named
// "<path>.<timestamp>-<seq>" and only the newest MaxFiles are kept; zero
// keeps them all.
type RotateWriter struct {
	path     string
	limit    int64
	maxFiles int

	mu   sync.Mutex
	f    *os.File
	size int64
	seq  int
}

func NewRotateWriter(path string, cfg config.LoggingConfig) (*RotateWriter, error) {
	limit := int64(defaultMaxLogSize)
	if s := cfg.Rotation.MaxSize; s != "" {
		n, err := units.FromHumanSize(s)
		if err != nil {
			return nil, fmt.Errorf("invalid max size format: %w", err)
		}
		limit = n
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &RotateWriter{path: path, limit: limit, maxFiles: cfg.Rotation.MaxFiles}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotateWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return 0, os.ErrClosed
	}

	// an oversized record still goes to a file of its own
	if w.size > 0 && w.size+int64(len(p)) > w.limit {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *RotateWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotateWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.f, w.size = f, fi.Size()
	return nil
}

// rotate is called with mu held
func (w *RotateWriter) rotate() error {
	if err := w.f.Close(); err != nil {
		return err
	}
	w.seq = (w.seq + 1) % 10000
	backup := fmt.Sprintf("%s.%s-%04d", w.path, time.Now().Format("20060102-150405.000000"), w.seq)
	if err := os.Rename(w.path, backup); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := w.prune(); err != nil {
		return err
	}
	return w.open()
}

// prune deletes the oldest backups beyond maxFiles. Backup names sort in
// creation order.
func (w *RotateWriter) prune() error {
	if w.maxFiles <= 0 {
		return nil
	}
	backups, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return err
	}
	if len(backups) <= w.maxFiles {
		return nil
	}
	slices.Sort(backups)
	for _, p := range backups[:len(backups)-w.maxFiles] {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}
