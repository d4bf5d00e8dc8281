package engine

import "time"

// Clock abstracts wall-clock time so tests can pin the day boundary.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// All day bucketing in this package uses local-time boundaries, uniformly:
// completions, session windows, reconciliation dates.

func dateOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func endOfDay(day time.Time) time.Time {
	d := dateOf(day)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.Local)
}

func dayKey(t time.Time) string {
	return dateOf(t).Format("2006-01-02")
}

func sameDay(a, b time.Time) bool {
	return dateOf(a).Equal(dateOf(b))
}

// daysBetween counts civil days from a to b. Rounding absorbs DST-shifted
// day lengths so a 23- or 25-hour day still counts as one.
func daysBetween(a, b time.Time) int {
	hours := dateOf(b).Sub(dateOf(a)).Hours()
	if hours >= 0 {
		return int(hours/24 + 0.5)
	}
	return -int(-hours/24 + 0.5)
}
