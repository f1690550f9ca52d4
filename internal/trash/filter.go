package trash

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"time"

	"github.com/babarot/kuzukago/internal/config"
	"github.com/babarot/kuzukago/internal/utils/fs"
	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/k1LoW/duration"
	"github.com/samber/lo"
)

// Filterable defines the interface that trashed items must implement to be filtered
type Filterable interface {
	// GetName returns the logical name of the item
	GetName() string
	// GetPath returns the current path in trash
	GetPath() string
	// GetDeletedAt returns when the item was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds filtering configuration
type FilterOptions struct {
	Include config.IncludeConfig
	Exclude config.ExcludeConfig

	// Within keeps only items trashed less than this long ago. Zero disables it.
	Within time.Duration
}

type dirSizeFunc func(string) (int64, error)

// Filter applies filtering rules to a slice of items
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	return filterWith(items, opts, fs.DirSize, time.Now())
}

func filterWith[T Filterable](items []T, opts FilterOptions, dirSize dirSizeFunc, now time.Time) []T {
	items = rejectByNames(items, opts.Exclude.Files)
	items = rejectByPatterns(items, opts.Exclude.Patterns)
	items = rejectByGlobs(items, opts.Exclude.Globs)
	items = rejectBySize(items, opts.Exclude.Size, dirSize)
	items = filterByPeriod(items, opts.Include.Period, now)
	items = filterByAge(items, opts.Within, now)
	return items
}

func rejectByNames[T Filterable](items []T, excludeFiles []string) []T {
	if len(excludeFiles) == 0 {
		return items
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return slices.Contains(excludeFiles, item.GetName())
	})
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			slog.Warn("ignoring invalid exclude pattern", "pattern", p, "error", err)
			continue
		}
		res = append(res, re)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(res, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	})
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	gs := make([]glob.Glob, 0, len(globs))
	for _, g := range globs {
		compiled, err := glob.Compile(g)
		if err != nil {
			slog.Warn("ignoring invalid exclude glob", "glob", g, "error", err)
			continue
		}
		gs = append(gs, compiled)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(gs, func(g glob.Glob) bool {
			return g.Match(item.GetName())
		})
	})
}

func rejectBySize[T Filterable](items []T, size config.SizeConfig, dirSize dirSizeFunc) []T {
	if size.Min == "" && size.Max == "" {
		return items
	}

	var filtered []T
	for _, item := range items {
		n, err := dirSize(item.GetPath())
		if err != nil {
			continue // Skip items we can't size
		}

		include := true
		if size.Min != "" {
			if min, err := units.FromHumanSize(size.Min); err == nil && n <= min {
				include = false
			}
		}
		if size.Max != "" {
			if max, err := units.FromHumanSize(size.Max); err == nil && max <= n {
				include = false
			}
		}
		if include {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func filterByPeriod[T Filterable](items []T, period int, now time.Time) []T {
	if period <= 0 {
		return items
	}

	d, err := duration.Parse(fmt.Sprintf("%d days", period))
	if err != nil {
		slog.Error("failed to parse duration", "error", err)
		return items
	}
	return filterByAge(items, d, now)
}

func filterByAge[T Filterable](items []T, d time.Duration, now time.Time) []T {
	if d <= 0 {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return now.Sub(item.GetDeletedAt()) < d
	})
}
