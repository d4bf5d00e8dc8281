package calendar

import (
	"fmt"
	"strings"
)

var weekdayNames = map[string]string{
	"MO": "Monday", "TU": "Tuesday", "WE": "Wednesday",
	"TH": "Thursday", "FR": "Friday", "SA": "Saturday", "SU": "Sunday",
}

// SummarizeRecurrence renders the first RRULE of a recurrence set as a short
// human-readable phrase ("Repeats daily", "Repeats every Monday and Friday").
// Returns "" for events without recurrence.
func SummarizeRecurrence(recurrence []string) string {
	if len(recurrence) == 0 {
		return ""
	}
	rule := recurrence[0]
	if !strings.HasPrefix(rule, "RRULE:") {
		return ""
	}

	params := map[string]string{}
	for _, part := range strings.Split(strings.TrimPrefix(rule, "RRULE:"), ";") {
		if k, v, ok := strings.Cut(part, "="); ok {
			params[k] = v
		}
	}

	freq := strings.ToUpper(params["FREQ"])
	interval := params["INTERVAL"]
	if interval == "" {
		interval = "1"
	}

	switch freq {
	case "DAILY":
		if interval == "1" {
			return "Repeats daily"
		}
		return fmt.Sprintf("Repeats every %s days", interval)

	case "WEEKLY":
		if byday := params["BYDAY"]; byday != "" {
			var days []string
			for _, abbr := range strings.Split(byday, ",") {
				if name, ok := weekdayNames[abbr]; ok {
					days = append(days, name)
				} else {
					days = append(days, abbr)
				}
			}
			dayStr := joinNatural(days)
			if interval == "1" {
				return fmt.Sprintf("Repeats every %s", dayStr)
			}
			return fmt.Sprintf("Repeats every %s weeks on %s", interval, dayStr)
		}
		if interval == "1" {
			return "Repeats weekly"
		}
		return fmt.Sprintf("Repeats every %s weeks", interval)

	case "MONTHLY":
		if monthDay := params["BYMONTHDAY"]; monthDay != "" {
			if interval == "1" {
				return fmt.Sprintf("Repeats monthly on the %s", monthDay)
			}
			return fmt.Sprintf("Repeats every %s months on the %s", interval, monthDay)
		}
		if interval == "1" {
			return "Repeats monthly"
		}
		return fmt.Sprintf("Repeats every %s months", interval)

	case "YEARLY":
		if interval == "1" {
			return "Repeats yearly"
		}
		return fmt.Sprintf("Repeats every %s years", interval)

	case "":
		return ""
	default:
		return fmt.Sprintf("Repeats (%s)", strings.ToLower(freq))
	}
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
