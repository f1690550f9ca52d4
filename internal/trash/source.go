package trash

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source is a readable byte source that can be moved into or out of trash.
// The caller owns it until the mover consumes it; the mover never keeps it
// after an operation returns.
type Source interface {
	// Open opens the source for reading
	Open() (io.ReadCloser, error)

	// DisplayName is the suggested name, used to derive the logical name
	DisplayName() string
}

// LocalSource is implemented by sources backed by a path on the local
// filesystem. Such sources are eligible for a plain rename.
type LocalSource interface {
	Source
	LocalPath() (string, bool)
}

// Remover is implemented by sources that can delete themselves at origin
// once their bytes have been copied.
type Remover interface {
	Remove() error
}

// FileSource is a file or directory on the local filesystem
type FileSource struct {
	Path string
	Name string
}

// NewFileSource returns a FileSource for path. The display name defaults to
// the base name of the absolute path.
func NewFileSource(p string) (*FileSource, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return &FileSource{Path: abs, Name: filepath.Base(abs)}, nil
}

func (s *FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s *FileSource) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

func (s *FileSource) LocalPath() (string, bool) {
	return s.Path, true
}

func (s *FileSource) Remove() error {
	return os.RemoveAll(s.Path)
}

// StreamSource is a byte stream with no filesystem path, e.g. a handle
// obtained from a content provider or standard input.
type StreamSource struct {
	Name string

	// OpenFunc opens the stream. It is called at most once per move.
	OpenFunc func() (io.ReadCloser, error)

	// RemoveFunc deletes the stream at its origin. Optional.
	RemoveFunc func() error

	// URI is where the stream came from, recorded as the original location
	URI string
}

// NewReaderSource wraps an already opened reader. The reader is closed when
// the mover is done with it.
func NewReaderSource(name string, r io.Reader) *StreamSource {
	return &StreamSource{
		Name: name,
		OpenFunc: func() (io.ReadCloser, error) {
			if rc, ok := r.(io.ReadCloser); ok {
				return rc, nil
			}
			return io.NopCloser(r), nil
		},
	}
}

func (s *StreamSource) Open() (io.ReadCloser, error) {
	if s.OpenFunc == nil {
		return nil, errors.New("stream has no opener")
	}
	return s.OpenFunc()
}

func (s *StreamSource) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return NameFromURI(s.URI)
}

func (s *StreamSource) Remove() error {
	if s.RemoveFunc == nil {
		return nil
	}
	return s.RemoveFunc()
}

// NameFromURI returns the last path segment of uri, which is what content
// providers fall back to when they have no display name.
func NameFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Path == "" && u.Opaque == "") {
		return path.Base(strings.TrimRight(uri, "/"))
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// originOf returns the location a source will be recorded with in the sidecar
func originOf(src Source) string {
	if ls, ok := src.(LocalSource); ok {
		if p, ok := ls.LocalPath(); ok {
			return p
		}
	}
	if ss, ok := src.(*StreamSource); ok {
		return ss.URI
	}
	return ""
}
