package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/schema"
)

// Define the regular expression to capture "N [units] ago" and "N [units] ahead"
// e.g., "2 years ago", "3 months ago", "2 weeks ahead".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+(ago|ahead)$`)

// ParseRelativeTime converts strings like "2 weeks ago" or "10 days ahead" into
// a date relative to now.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "year" or "month")
	// 3: Direction
	value, _ := strconv.Atoi(matches[1])
	if matches[3] == "ago" {
		value = -value
	}

	switch matches[2] {
	case "year":
		return now.AddDate(value, 0, 0), nil
	case "month":
		return now.AddDate(0, value, 0), nil
	case "week":
		return now.AddDate(0, 0, 7*value), nil
	case "day":
		return now.AddDate(0, 0, value), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", matches[2])
	}
}

// ParseDate parses an absolute date (2006-01-02 or RFC3339), a keyword
// (today, yesterday, tomorrow) or a relative date, and truncates it to a civil day.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(schema.DateFormat, s); err == nil {
		return pmc.Civil(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return pmc.Civil(t), nil
	}
	switch strings.ToLower(s) {
	case "today":
		return pmc.Civil(now), nil
	case "yesterday":
		return pmc.Civil(now.AddDate(0, 0, -1)), nil
	case "tomorrow":
		return pmc.Civil(now.AddDate(0, 0, 1)), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected %s, RFC3339, today or 'N [units] ago|ahead'", s, schema.DateFormat)
	}
	return pmc.Civil(t), nil
}
