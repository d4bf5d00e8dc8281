package engine

import "strings"

// NormalizeEventID strips the per-occurrence timestamp suffix from a
// recurring calendar event id: "<base>_<UTC instant>" becomes "<base>" when
// the suffix looks like a UTC instant (contains 'T' and ends in 'Z').
// Completion, session, and XP records are all keyed by the base id so every
// occurrence of a recurring task shares one identity. Normalizing an
// already-base id returns it unchanged.
func NormalizeEventID(eventID string) string {
	i := strings.LastIndex(eventID, "_")
	if i < 0 {
		return eventID
	}
	suffix := eventID[i+1:]
	if strings.Contains(suffix, "T") && strings.HasSuffix(suffix, "Z") {
		return eventID[:i]
	}
	return eventID
}
