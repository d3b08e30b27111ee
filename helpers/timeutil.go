// Package helpers contains small shared utilities.
package helpers

import "time"

// TruncateToHour floors a timestamp to the top of its hour, in UTC.
// All hourly tables key their rows on values produced this way.
func TruncateToHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// DayBoundsUTC returns the [start, end) bounds of the UTC calendar day
// containing t: midnight to midnight.
func DayBoundsUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// DateUTC normalizes a timestamp to midnight UTC of its calendar day.
// Holiday rows are keyed on values produced this way.
func DateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// HourSpan returns the number of hourly slots from first to last inclusive,
// assuming both are hour-aligned. Returns 0 when last precedes first.
func HourSpan(first, last time.Time) int64 {
	if last.Before(first) {
		return 0
	}
	return int64(last.Sub(first)/time.Hour) + 1
}
