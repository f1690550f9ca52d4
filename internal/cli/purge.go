package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Purge permanently deletes the named items from trash
func (c *CLI) Purge(ctx context.Context, names []string) error {
	slog.Debug("cli.purge started")
	defer slog.Debug("cli.purge finished")

	if len(names) == 0 {
		return errors.New("purge requires at least one name (see --list)")
	}

	if !c.option.Rm.Force && !c.confirm(fmt.Sprintf("Permanently delete %d item(s)?", len(names))) {
		fmt.Fprintln(c.stdout, "Purge canceled.")
		return nil
	}

	var errs []error
	for _, name := range names {
		if err := c.manager.Purge(ctx, name); err != nil {
			errs = append(errs, err)
			continue
		}
		if c.option.Rm.Verbose {
			fmt.Fprintf(c.stdout, "purged '%s'\n", name)
		}
	}
	return formatErrors(errs)
}
