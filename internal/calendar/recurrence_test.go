package calendar

import "testing"

func TestSummarizeRecurrence(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"none", nil, ""},
		{"not an rrule", []string{"EXDATE:20240501"}, ""},
		{"daily", []string{"RRULE:FREQ=DAILY"}, "Repeats daily"},
		{"every 3 days", []string{"RRULE:FREQ=DAILY;INTERVAL=3"}, "Repeats every 3 days"},
		{"weekly", []string{"RRULE:FREQ=WEEKLY"}, "Repeats weekly"},
		{"weekly byday", []string{"RRULE:FREQ=WEEKLY;BYDAY=MO,FR"}, "Repeats every Monday and Friday"},
		{
			"weekly three days",
			[]string{"RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR"},
			"Repeats every Monday, Wednesday, and Friday",
		},
		{
			"biweekly byday",
			[]string{"RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU"},
			"Repeats every 2 weeks on Tuesday",
		},
		{"monthly", []string{"RRULE:FREQ=MONTHLY"}, "Repeats monthly"},
		{"monthly on day", []string{"RRULE:FREQ=MONTHLY;BYMONTHDAY=15"}, "Repeats monthly on the 15"},
		{"yearly", []string{"RRULE:FREQ=YEARLY"}, "Repeats yearly"},
		{"unknown freq", []string{"RRULE:FREQ=HOURLY"}, "Repeats (hourly)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SummarizeRecurrence(c.in); got != c.want {
				t.Fatalf("SummarizeRecurrence(%v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
