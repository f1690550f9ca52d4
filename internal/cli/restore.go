package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/kuzukago/internal/trash"
)

func (c *CLI) Restore(ctx context.Context, names []string) error {
	slog.Debug("cli.restore started")
	defer slog.Debug("cli.restore finished")

	if len(names) == 0 {
		return errors.New("restore requires at least one name (see --list)")
	}

	var errs []error
	for _, name := range names {
		if err := c.restoreOne(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return formatErrors(errs)
}

func (c *CLI) restoreOne(ctx context.Context, name string) error {
	if item, err := c.manager.Get(name); err == nil && item.RequiresAdmin() {
		slog.Warn("item is write-protected, restore may fail", "name", name)
	}

	dst, err := c.manager.Restore(ctx, name, c.option.To)
	switch {
	case err == nil:
	case trash.IsSourceDeleteFailed(err):
		fmt.Fprintf(c.stdout, "restored '%s' to %s but it could not be removed from trash\n", name, dst)
		return err
	case trash.IsNotFound(err):
		return fmt.Errorf("%s: not in trash or original location unknown (use --to): %w", name, err)
	case trash.IsDestinationExists(err):
		return fmt.Errorf("%s: refusing to overwrite existing file: %w", name, err)
	default:
		return err
	}

	if c.config.Core.Restore.Verbose || c.option.Rm.Verbose {
		fmt.Fprintf(c.stdout, "restored '%s' to %s\n", name, dst)
	}
	return nil
}
