// Package duration parses the retention periods accepted on the command line,
// such as "30d", "2w" or "6months". "m" means months here, not minutes.
package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	kduration "github.com/k1LoW/duration"
)

const day = 24 * time.Hour

var periods = map[string]time.Duration{
	"h": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"m": 30 * day, "mo": 30 * day, "month": 30 * day, "months": 30 * day,
	"y": 365 * day, "year": 365 * day, "years": 365 * day,
}

var shorthandRe = regexp.MustCompile(`^(\d+)\s*([a-z]+)$`)

var (
	// ErrInvalidFormat is returned for input that is not a period at all
	ErrInvalidFormat = errors.New("invalid duration format")

	// ErrInvalidNumber is returned when the count overflows
	ErrInvalidNumber = errors.New("invalid duration number")

	// ErrInvalidUnit is returned for a single count with an unknown unit
	ErrInvalidUnit = errors.New("invalid duration unit")
)

// Parse converts input to a duration. A single count with a unit ("3d") is
// read with calendar-ish units; anything else ("1h30m", "1 day 12 hours") is
// handed to Go duration parsers.
func Parse(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch {
	case s == "":
		return 0, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	case strings.HasPrefix(s, "-"):
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidFormat)
	}

	if m := shorthandRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, m[1])
		}
		unit, ok := periods[m[2]]
		if !ok {
			return 0, fmt.Errorf("%w: %q (supported: h, d, w, m, y)", ErrInvalidUnit, m[2])
		}
		return time.Duration(n) * unit, nil
	}

	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d, nil
	}
	d, err := kduration.Parse(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}
	return d, nil
}
