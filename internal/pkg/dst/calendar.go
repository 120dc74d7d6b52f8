package dst

import "time"

// LastWeekdayOfMonth returns 00:00 UTC on the last occurrence of weekday in
// the given month.
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	// Day zero of the following month normalises to the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	back := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -back)
}

// NthWeekdayOfMonth returns 00:00 UTC on the nth (1-based) occurrence of
// weekday in the given month. An n past the end of the month spills into the
// following month, matching time.Date normalisation.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	fwd := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, fwd+7*(n-1))
}
