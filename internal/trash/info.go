package trash

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Format of the sidecar files, compatible with the freedesktop.org trash spec
	trashInfoHeader = "[Trash Info]"
	timeFormat      = "2006-01-02T15:04:05"
	infoExt         = ".trashinfo"
)

// TrashInfo is the sidecar record of one trashed item.
// It is advisory: the payload under files/ is the source of truth.
type TrashInfo struct {
	// Name is the logical name of the item. It is only recorded when the
	// sidecar file name cannot carry it.
	Name string

	// Path is the original location of the item, a path or a URI
	Path string

	// DeletionDate is when the item was moved to trash
	DeletionDate time.Time
}

// ParseInfo reads a TrashInfo from r
func ParseInfo(r io.Reader) (*TrashInfo, error) {
	scanner := bufio.NewScanner(r)
	info := &TrashInfo{}
	var headerFound bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == trashInfoHeader {
			headerFound = true
			continue
		}

		if !headerFound {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "Name":
			name, err := url.PathUnescape(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Name encoding: %w", err)
			}
			info.Name = name
		case "Path":
			p, err := url.PathUnescape(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Path encoding: %w", err)
			}
			info.Path = p
		case "DeletionDate":
			date, err := time.ParseInLocation(timeFormat, strings.TrimSpace(value), time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid DeletionDate format: %w", err)
			}
			info.DeletionDate = date
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading info file: %w", err)
	}

	if !headerFound {
		return nil, fmt.Errorf("missing %s header", trashInfoHeader)
	}
	if info.DeletionDate.IsZero() {
		return nil, fmt.Errorf("missing DeletionDate field")
	}

	return info, nil
}

// WriteTo writes the sidecar contents
func (i *TrashInfo) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintln(&b, trashInfoHeader)
	fmt.Fprintf(&b, "Path=%s\n", encodeTrashPath(i.Path))
	fmt.Fprintf(&b, "DeletionDate=%s\n", i.DeletionDate.Format(timeFormat))
	if i.Name != "" {
		fmt.Fprintf(&b, "Name=%s\n", url.PathEscape(i.Name))
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Save writes the sidecar to path through a temporary file so that readers
// never observe a half-written record. An existing record is replaced.
// The temporary name has a fixed length whatever the length of path.
func (i *TrashInfo) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), stagingPrefix+"info-*"+stagingSuffix)
	if err != nil {
		return fmt.Errorf("failed to create info file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := i.WriteTo(tmp); err != nil {
		cleanup()
		return fmt.Errorf("failed to write info file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync info file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close info file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save info file: %w", err)
	}
	return nil
}

// loadInfo loads and parses a sidecar file
func loadInfo(path string) (*TrashInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseInfo(f)
}

// encodeTrashPath percent-encodes each path segment, keeping the slashes.
// Spaces become %20, never "+".
func encodeTrashPath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
