package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/babarot/kuzukago/internal/trash"
	"github.com/babarot/kuzukago/internal/utils/duration"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gabriel-vasile/mimetype"
	"github.com/olekukonko/tablewriter"
)

// List prints the items in trash that pass the history filters
func (c *CLI) List() error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	items, err := c.manager.List()
	if err != nil {
		return err
	}

	opts := trash.FilterOptions{
		Include: c.config.History.Include,
		Exclude: c.config.History.Exclude,
	}
	if c.option.Within != "" {
		d, err := duration.Parse(c.option.Within)
		if err != nil {
			return fmt.Errorf("invalid --within value: %w", err)
		}
		opts.Within = d
	}

	filtered := trash.Filter(items, opts)
	if len(filtered) == 0 {
		if len(items) == 0 {
			fmt.Fprintln(c.stdout, "Trash is empty.")
		} else {
			fmt.Fprintln(c.stdout, "No items match the filter criteria.")
		}
		return nil
	}

	renderItems(c.stdout, filtered, time.Now())
	return nil
}

func renderItems(w io.Writer, items []*trash.Item, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Size", "Type", "Deleted", "Original Path"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, item := range items {
		name := item.Name
		if item.IsDir {
			name = color.New(color.FgHiBlue, color.Bold).Sprint(name + "/")
		} else if item.RequiresAdmin() {
			name = color.New(color.FgYellow).Sprint(name)
		}

		origin := item.OriginalPath
		if origin == "" {
			origin = "-"
		}

		table.Append([]string{
			name,
			humanize.Bytes(uint64(max(item.Size, 0))),
			detectType(item),
			humanize.RelTime(item.DeletedAt, now, "ago", "from now"),
			origin,
		})
	}
	table.Render()
}

func detectType(item *trash.Item) string {
	switch {
	case item.IsDir:
		return "inode/directory"
	case item.FileMode&fs.ModeSymlink != 0:
		return "inode/symlink"
	case !item.FileMode.IsRegular():
		return "-"
	}
	mtype, err := mimetype.DetectFile(item.TrashPath)
	if err != nil {
		return "-"
	}
	return mtype.String()
}
