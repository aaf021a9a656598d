// Package duration parses the short age strings accepted by history --since.
//
// "90m" is ninety minutes, "12h" twelve hours, "7d" seven days and "4w" four
// weeks. Anything else falls back to Go's time.ParseDuration.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var short = regexp.MustCompile(`^(\d+)([mhdw])$`)

const day = 24 * time.Hour

// Parse parses s as Nm, Nh, Nd or Nw, or as a Go duration ("1h30m").
func Parse(s string) (time.Duration, error) {
	matches := short.FindStringSubmatch(s)
	if matches == nil {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid duration: %q (use 90m, 12h, 7d or 4w)", s)
		}
		return d, nil
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	switch matches[2] {
	case "m":
		return time.Duration(num) * time.Minute, nil
	case "h":
		return time.Duration(num) * time.Hour, nil
	case "d":
		return time.Duration(num) * day, nil
	default:
		return time.Duration(num) * 7 * day, nil
	}
}

// Since returns the instant s before now.
func Since(s string, now time.Time) (time.Time, error) {
	d, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
