package util

import (
	"strconv"
	"time"
)

// DayFormat is the calendar-date layout used across persisted tables.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD calendar date in UTC.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as a YYYY-MM-DD calendar date.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseTime tries RFC3339, RFC3339Nano, YYYY-MM-DD, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, ok := ParseDay(s); ok {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// DateWindow is a closed sub-range of a fetch period.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// SplitWindows splits [from, to] into consecutive windows of at most days
// days each. External services cap the span of one request, so fetch loops
// walk these windows with a politeness delay between calls.
func SplitWindows(from, to time.Time, days int) []DateWindow {
	if days <= 0 || !from.Before(to) {
		return nil
	}
	var out []DateWindow
	cur := from
	for cur.Before(to) {
		end := cur.AddDate(0, 0, days)
		if end.After(to) {
			end = to
		}
		out = append(out, DateWindow{From: cur, To: end})
		cur = end.AddDate(0, 0, 1)
	}
	return out
}
