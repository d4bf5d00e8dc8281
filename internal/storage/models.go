package storage

import "time"

// Session status values. A task has at most one running session at a time.
const (
	SessionRunning = "running"
	SessionPaused  = "paused"
	SessionDone    = "done"
)

// DayFormat is the canonical encoding of a local calendar day in the DB.
const DayFormat = "2006-01-02"

type EventCompletion struct {
	ID          int64
	EventID     string
	Day         string
	Done        bool
	CompletedAt *time.Time
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskSession struct {
	ID              int64
	EventID         string
	StartTime       time.Time
	EndTime         *time.Time
	DurationSeconds int64
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type XPTransaction struct {
	ID           int64
	Points       int
	EventID      *string
	Description  string
	TotalXPAfter int
	CreatedAt    time.Time
}

type DeductionRun struct {
	ID              int64
	RunDate         string
	PendingCount    int
	DeductedCount   int
	TotalXPDeducted int
	CreatedAt       time.Time
}

// CompletionStatus is the bulk-lookup record for a (task, day) pair. Tasks
// without a stored row report the zero value.
type CompletionStatus struct {
	Done        bool
	CompletedAt *time.Time
	Description *string
}
