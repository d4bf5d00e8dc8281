// Package calendar is the Google Calendar collaborator: it lists, creates,
// updates, and deletes events on the user's primary calendar and summarizes
// recurrence rules. Authentication state is exposed as a nullable handle so
// the rest of the app can run unauthenticated.
package calendar

import "time"

// Event is a parsed calendar event. ID is the raw per-occurrence id; the
// engine normalizes it to a base id for bookkeeping.
type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Recurrence  string // human-readable summary, empty for one-off events
}
