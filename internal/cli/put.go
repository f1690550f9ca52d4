package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/babarot/kuzukago/internal/trash"
	"github.com/babarot/kuzukago/internal/utils/fs"
)

func (c *CLI) Put(ctx context.Context, args []string) error {
	slog.Debug("cli.put started")
	defer slog.Debug("cli.put finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	var (
		sources []trash.Source
		errs    []error
	)
	for _, arg := range args {
		src, err := c.prepare(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if src != nil {
			sources = append(sources, src)
		}
	}

	items, err := c.manager.TrashAll(ctx, sources)
	for i, item := range items {
		if item != nil && c.option.Rm.Verbose {
			c.printRemoved(sources[i], item)
		}
	}
	if err != nil {
		errs = append(errs, err)
	}

	return formatErrors(errs)
}

// PutStdin trashes the bytes read from standard input under name
func (c *CLI) PutStdin(ctx context.Context, name string) error {
	slog.Debug("cli.put-stdin started", "name", name)
	defer slog.Debug("cli.put-stdin finished")

	item, err := c.manager.Trash(ctx, trash.NewReaderSource(name, c.stdin))
	if err != nil {
		return err
	}
	if c.option.Rm.Verbose {
		fmt.Fprintf(c.stdout, "stored stdin as '%s'\n", item.Name)
	}
	return nil
}

// prepare turns a command line argument into a source. A nil source with a
// nil error means the argument is skipped.
func (c *CLI) prepare(arg string) (trash.Source, error) {
	if err := validatePath(arg); err != nil {
		return nil, err
	}

	if _, err := os.Lstat(arg); err != nil {
		if os.IsNotExist(err) {
			if c.option.Rm.Force {
				return nil, nil
			}
			return nil, fmt.Errorf("%s: no such file or directory", arg)
		}
		return nil, err
	}

	src, err := trash.NewFileSource(arg)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (c *CLI) printRemoved(src trash.Source, item *trash.Item) {
	what := "removed"
	if item.IsDir {
		what = "removed directory"
	}
	if item.Name != src.DisplayName() {
		fmt.Fprintf(c.stdout, "%s '%s' (stored as '%s')\n", what, src.DisplayName(), item.Name)
		return
	}
	fmt.Fprintf(c.stdout, "%s '%s'\n", what, src.DisplayName())
}

// validatePath checks if path is valid for trashing
func validatePath(path string) error {
	if unsafe, err := fs.IsUnsafePath(path); err != nil {
		return err
	} else if unsafe {
		return fmt.Errorf("refusing to remove '.' or '..' directory: skipping %q", path)
	}

	// Common paths that should not be trashed
	protected := []string{
		"/",
		"/home",
		"/usr",
		"/etc",
		"/var",
		"/tmp",
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for _, p := range protected {
		if absPath == p {
			return fmt.Errorf("cannot trash protected path: %s", path)
		}
	}

	if home, err := os.UserHomeDir(); err == nil && absPath == home {
		return fmt.Errorf("cannot trash protected path: %s", path)
	}

	return nil
}
