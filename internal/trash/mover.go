package trash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	cp "github.com/otiai10/copy"
)

// DefaultBufferSize is the chunk size of streamed copies
const DefaultBufferSize = 32 * 1024

// Mover transfers bytes between a source and a destination path
type Mover struct {
	// BufferSize bounds the memory used by a streamed copy
	BufferSize int

	logger *slog.Logger
}

// NewMover returns a mover using bufferSize bytes per copy chunk.
// Non-positive sizes fall back to DefaultBufferSize.
func NewMover(bufferSize int) *Mover {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Mover{
		BufferSize: bufferSize,
		logger:     discardLogger(),
	}
}

// MoveOrCopy moves src to dst.
//
// A local source on the same volume is renamed. Anything else is copied into
// a staging file next to dst, flushed, renamed into place and then deleted at
// its origin. dst is never replaced.
//
// When the copy succeeded but the source could not be deleted, the returned
// error matches ErrSourceDeleteFailed and dst is valid.
func (m *Mover) MoveOrCopy(ctx context.Context, src Source, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ls, ok := src.(LocalSource); ok {
		if p, ok := ls.LocalPath(); ok {
			return m.moveLocal(ctx, src, p, dst)
		}
	}

	if err := m.copyStream(ctx, src, dst, 0); err != nil {
		return err
	}
	return m.deleteSource(src)
}

func (m *Mover) moveLocal(ctx context.Context, src Source, p, dst string) error {
	fi, err := os.Lstat(p)
	if err != nil {
		return classify(err, ErrSourceUnreadable)
	}

	if same, err := isSamePartition(p, filepath.Dir(dst)); err == nil && same {
		err := renameNoReplace(p, dst)
		switch {
		case err == nil:
			m.logger.Debug("renamed", "src", p, "dst", dst)
			return nil
		case errors.Is(err, fs.ErrExist):
			return wrapKind(ErrDestinationExists, err)
		}
		m.logger.Debug("rename failed, falling back to copy", "src", p, "error", err)
	}

	if fi.Mode().IsRegular() {
		if err := m.copyStream(ctx, src, dst, fi.Mode().Perm()); err != nil {
			return err
		}
	} else {
		if err := m.copyTree(ctx, p, dst); err != nil {
			return err
		}
	}
	return m.deleteSource(src)
}

// copyStream copies the bytes of src into dst through a staging file
func (m *Mover) copyStream(ctx context.Context, src Source, dst string, perm fs.FileMode) error {
	r, err := src.Open()
	if err != nil {
		return classify(err, ErrSourceUnreadable)
	}
	defer r.Close()

	if perm == 0 {
		perm = 0600
	}

	staging := stagingPath(dst)
	f, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return classify(err, ErrDestinationWriteFailed)
	}

	fail := func(err error) error {
		f.Close()
		os.Remove(staging)
		return err
	}

	// the create mode is subject to umask
	if err := f.Chmod(perm); err != nil {
		return fail(classify(err, ErrDestinationWriteFailed))
	}

	buf := make([]byte, m.bufferSize())
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return fail(classify(werr, ErrDestinationWriteFailed))
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(classify(rerr, ErrSourceUnreadable))
		}
	}

	if err := f.Sync(); err != nil {
		return fail(classify(err, ErrDestinationWriteFailed))
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return classify(err, ErrDestinationWriteFailed)
	}

	if err := m.commit(staging, dst); err != nil {
		return err
	}
	m.logger.Debug("copied", "dst", dst, "bytes", written)
	return nil
}

// copyTree copies a directory or symlink into dst through a staging path
func (m *Mover) copyTree(ctx context.Context, p, dst string) error {
	staging := stagingPath(dst)
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
		Skip: func(fs.FileInfo, string, string) (bool, error) {
			return false, ctx.Err()
		},
		PreserveTimes:  true,
		Sync:           true,
		CopyBufferSize: uint(m.bufferSize()),
	}

	if err := cp.Copy(p, staging, opts); err != nil {
		os.RemoveAll(staging)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return classifyCopyError(err, p)
	}

	return m.commit(staging, dst)
}

// commit publishes a fully written staging path under dst
func (m *Mover) commit(staging, dst string) error {
	if err := renameNoReplace(staging, dst); err != nil {
		os.RemoveAll(staging)
		if errors.Is(err, fs.ErrExist) {
			return wrapKind(ErrDestinationExists, err)
		}
		return classify(err, ErrDestinationWriteFailed)
	}
	return nil
}

func (m *Mover) deleteSource(src Source) error {
	rm, ok := src.(Remover)
	if !ok {
		return nil
	}
	if err := rm.Remove(); err != nil {
		m.logger.Debug("copied but failed to delete source", "src", src.DisplayName(), "error", err)
		return wrapKind(ErrSourceDeleteFailed, err)
	}
	return nil
}

func (m *Mover) bufferSize() int {
	if m.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return m.BufferSize
}

func stagingPath(dst string) string {
	return filepath.Join(filepath.Dir(dst), fmt.Sprintf("%s%s%s", stagingPrefix, uuid.NewString(), stagingSuffix))
}

// classifyCopyError tells source failures from destination failures using
// the path carried by the error.
func classifyCopyError(err error, srcRoot string) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		if pe.Path == srcRoot || strings.HasPrefix(pe.Path, srcRoot+string(filepath.Separator)) {
			return classify(err, ErrSourceUnreadable)
		}
	}
	return classify(err, ErrDestinationWriteFailed)
}
