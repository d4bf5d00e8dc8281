package engine

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}
	cases := []struct {
		a, b time.Time
		want int
	}{
		{day(2024, 5, 1), day(2024, 5, 1), 0},
		{day(2024, 5, 1), day(2024, 5, 2), 1},
		{day(2024, 5, 1), day(2024, 5, 4), 3},
		{day(2024, 5, 4), day(2024, 5, 1), -3},
		{day(2024, 4, 28), day(2024, 5, 2), 4}, // month boundary
	}
	for _, c := range cases {
		if got := daysBetween(c.a, c.b); got != c.want {
			t.Errorf("daysBetween(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}

	// Mid-day instants truncate to their civil day.
	a := time.Date(2024, 5, 1, 23, 30, 0, 0, time.Local)
	b := time.Date(2024, 5, 2, 0, 30, 0, 0, time.Local)
	if got := daysBetween(a, b); got != 1 {
		t.Errorf("daysBetween across midnight = %d, want 1", got)
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 5, 1, 9, 15, 0, 0, time.Local)
	got := endOfDay(in)
	want := time.Date(2024, 5, 1, 23, 59, 59, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("endOfDay = %v, want %v", got, want)
	}
}
