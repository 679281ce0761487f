package helpers

import "time"

// DateLayout is the wire format for due dates (calendar date, no time).
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in the server's local zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// DateOnly truncates t to its calendar date in the server's local zone.
// Due-date comparisons are date-only against this value.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
