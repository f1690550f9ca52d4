package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/babarot/kuzukago/internal/trash"
	"github.com/babarot/kuzukago/internal/utils/duration"
	"github.com/babarot/kuzukago/internal/utils/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

// stagingGrace keeps staging files of copies that may still be running in
// another process
const stagingGrace = time.Hour

var (
	ErrInvalidArgument = errors.New("prune requires an argument (e.g., orphans, staging, 30d)")
)

// PruneFunc represents a function that performs a pruning operation
type PruneFunc func(context.Context) error

// Prune handles the pruning of trash contents
// It processes multiple targets for cleaning up the trash
func (c *CLI) Prune(ctx context.Context, args []string) error {
	slog.Debug("pruning trash contents started")
	defer slog.Debug("pruning trash contents finished")

	if len(args) == 0 {
		return ErrInvalidArgument
	}

	var (
		durations  []time.Duration
		pruneFuncs []PruneFunc
	)
	for _, arg := range args {
		switch arg {
		case "orphans":
			pruneFuncs = append(pruneFuncs, c.pruneOrphans)
		case "staging":
			pruneFuncs = append(pruneFuncs, c.pruneStaging)
		case "":
			return ErrInvalidArgument
		default:
			d, err := duration.Parse(arg)
			if err != nil {
				return fmt.Errorf("unknown prune argument %q: %w", arg, err)
			}
			slog.Debug("parse duration", "duration", d, "arg", arg)
			durations = append(durations, d)
		}
	}

	// the shortest period covers every other one
	if len(durations) > 0 {
		d := lo.Min(durations)
		pruneFuncs = append(pruneFuncs, func(ctx context.Context) error {
			return c.pruneOlderThan(ctx, d)
		})
	}

	for _, fn := range pruneFuncs {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// pruneOrphans removes sidecars without a corresponding payload
func (c *CLI) pruneOrphans(ctx context.Context) error {
	store := c.manager.Store()
	names, err := store.Orphans()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(c.stdout, "No orphaned metadata files found.")
		return nil
	}

	c.printOrphans(store, names)

	pruned, err := c.manager.PruneOrphans(ctx)
	if err != nil {
		return fmt.Errorf("some orphaned metadata files could not be removed: %w", err)
	}
	fmt.Fprintf(c.stdout, "Successfully removed %d orphaned metadata files.\n", len(pruned))
	return nil
}

func (c *CLI) printOrphans(store *trash.Store, names []string) {
	green := color.New(color.FgHiGreen).SprintfFunc()
	white := color.New(color.FgWhite).SprintfFunc()

	fmt.Fprintf(c.stdout, "%s %s %s\n",
		green("%-20s", "Modified At"),
		green("%-10s", "Size"),
		green("%-30s", "Path"),
	)
	for _, name := range names {
		p := store.InfoPathFor(name)
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.stdout, "%s %s %s\n",
			white("%-20s", info.ModTime().Format(time.DateTime)),
			white("%-10s", humanize.Bytes(uint64(info.Size()))),
			white("%-30s", p),
		)
	}
	fmt.Fprintln(c.stdout)
}

// pruneStaging removes leftovers of interrupted copies
func (c *CLI) pruneStaging(context.Context) error {
	if err := c.manager.Store().CleanupStaging(stagingGrace); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Removed stale staging files.")
	return nil
}

// pruneOlderThan purges items trashed more than d ago
func (c *CLI) pruneOlderThan(ctx context.Context, d time.Duration) error {
	items, err := c.manager.List()
	if err != nil {
		return err
	}

	now := time.Now()
	expired := lo.Filter(items, func(item *trash.Item, _ int) bool {
		return now.Sub(item.DeletedAt) >= d
	})
	if len(expired) == 0 {
		fmt.Fprintln(c.stdout, "No items older than the given period.")
		return nil
	}

	renderItems(c.stdout, expired, now)

	if !c.option.Rm.Force && !c.confirm(fmt.Sprintf("Permanently delete %s?", log.UnderBold(fmt.Sprintf("%d items", len(expired))))) {
		fmt.Fprintln(c.stdout, "Pruning canceled.")
		return nil
	}

	var errs []error
	for _, item := range expired {
		if err := c.manager.Purge(ctx, item.Name); err != nil {
			if trash.IsNotFound(err) {
				// purged concurrently
				continue
			}
			errs = append(errs, err)
		}
	}
	if err := formatErrors(errs); err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Successfully purged %d items.\n", len(expired)-len(errs))
	return nil
}
