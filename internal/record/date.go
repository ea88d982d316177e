package record

import (
	"strings"
	"time"
)

// DateLayout is the canonical stored date format, e.g. "05 Jan, 2024".
const DateLayout = "02 Jan, 2006"

// mediumLayout is what older clients wrote for the same field, e.g. "Jan 5, 2024".
const mediumLayout = "Jan 2, 2006"

var dateLayouts = []string{DateLayout, mediumLayout, time.DateOnly}

// Day truncates t to its calendar date, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates, ignoring time of day and location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// ParseDate parses a stored date string into a calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}

	return time.Time{}, false
}

// FormatDate renders a date in the canonical stored format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
