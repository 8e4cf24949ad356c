// Package dateparse parses the date-window flags (--after / --before) into
// UTC instants.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a date input string and returns midnight UTC of that day.
// Uses the current time as the reference point.
//
// Supported formats:
//   - Exact dates: "2026-03-01"
//   - Keywords: "today", "yesterday"
//   - Back-offsets: "-7d", "-2w", "-1m" (days, weeks, months ago)
func ParseDate(input string) (time.Time, error) {
	return ParseDateFrom(input, time.Now().UTC())
}

// ParseDateFrom parses a date input string relative to the given reference
// time. This variant enables deterministic testing with a fixed "now".
func ParseDateFrom(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}

	// Exact date: YYYY-MM-DD
	if t, err := time.Parse("2006-01-02", input); err == nil {
		return t, nil
	}

	switch input {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	}

	// Back-offsets: -Nd, -Nw, -Nm
	if strings.HasPrefix(input, "-") && len(input) >= 3 {
		suffix := input[len(input)-1]
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err == nil && n >= 0 {
			switch suffix {
			case 'd':
				return midnight(now.AddDate(0, 0, -n)), nil
			case 'w':
				return midnight(now.AddDate(0, 0, -n*7)), nil
			case 'm':
				return midnight(now.AddDate(0, -n, 0)), nil
			default:
				return time.Time{}, fmt.Errorf("unknown offset unit %q in %q (use d, w, or m)", string(suffix), input)
			}
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %q (use YYYY-MM-DD)", input)
}

func midnight(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
