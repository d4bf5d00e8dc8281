package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dayquest/internal/storage"
)

// MarkResult reports one mark-done action. Warnings carry degraded-but-
// successful outcomes (the completion stuck but an XP write failed).
type MarkResult struct {
	EventID     string
	Day         time.Time
	AlreadyDone bool
	XPAwarded   int
	Warnings    []string
}

// UndoResult reports one mark-undone action.
type UndoResult struct {
	EventID     string
	Day         time.Time
	WasDone     bool
	XPDeducted  int
	Warnings    []string
}

// MarkTaskDone marks the task done for the given day (zero day = today) and
// awards XP on the not-done-to-done transition. Marking an already-done task
// done again upserts the record but never re-awards XP. The completion
// instant is now for today and midnight of the day for backdated marks; the
// XP transaction is timestamped at that instant so backdated completions
// audit under their day.
func (s *Service) MarkTaskDone(ctx context.Context, eventID, description string, day time.Time) (*MarkResult, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ValidationError{Field: "description", Reason: "required when marking a task as done"}
	}

	baseID := NormalizeEventID(eventID)
	d := s.resolveDay(day)
	key := dayKey(d)

	completedAt := d // midnight of the target day for backdated marks
	if sameDay(d, s.clock.Now()) {
		completedAt = s.clock.Now()
	}

	wasDone, err := s.completions.IsDone(ctx, baseID, key)
	if err != nil {
		return nil, err
	}

	err = storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		_, err := storage.NewCompletionRepo(tx).MarkDone(ctx, baseID, key, strings.TrimSpace(description), completedAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := &MarkResult{EventID: baseID, Day: d, AlreadyDone: wasDone}
	if wasDone {
		return res, nil
	}

	// XP is best-effort relative to the completion write: a failed ledger
	// write surfaces as a warning, never unwinds the completion.
	err = storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		return storage.NewXPRepo(tx).Add(ctx, XPPerTask, baseID, fmt.Sprintf("Task completed: %s", baseID), completedAt)
	})
	if err != nil {
		s.log.Warn("xp award failed after completion", "event_id", baseID, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("completion saved but XP award failed: %v", err))
		return res, nil
	}
	res.XPAwarded = XPPerTask
	return res, nil
}

// MarkTaskUndone flips the task back to not-done for the given day and
// deducts the per-task XP only when a done record actually flipped. Undoing
// a task that was never done is a no-op success.
func (s *Service) MarkTaskUndone(ctx context.Context, eventID string, day time.Time) (*UndoResult, error) {
	baseID := NormalizeEventID(eventID)
	d := s.resolveDay(day)
	key := dayKey(d)

	wasDone, err := s.completions.IsDone(ctx, baseID, key)
	if err != nil {
		return nil, err
	}

	res := &UndoResult{EventID: baseID, Day: d, WasDone: wasDone}
	if !wasDone {
		return res, nil
	}

	err = storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		_, err := storage.NewCompletionRepo(tx).MarkUndone(ctx, baseID, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		return storage.NewXPRepo(tx).Add(ctx, -XPPerTask, baseID, fmt.Sprintf("Task undone: %s", baseID), s.clock.Now())
	})
	if err != nil {
		s.log.Warn("xp deduction failed after undo", "event_id", baseID, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("undo saved but XP deduction failed: %v", err))
		return res, nil
	}
	res.XPDeducted = XPPerTask
	return res, nil
}

// IsTaskDone reports whether the task is done for the given day.
func (s *Service) IsTaskDone(ctx context.Context, eventID string, day time.Time) (bool, error) {
	return s.completions.IsDone(ctx, NormalizeEventID(eventID), dayKey(s.resolveDay(day)))
}

// BatchCompletionStatus resolves completion status for many events on one day
// with a single bulk lookup. Input ids are normalized; the result is keyed by
// base id.
func (s *Service) BatchCompletionStatus(ctx context.Context, eventIDs []string, day time.Time) (map[string]storage.CompletionStatus, error) {
	key := dayKey(s.resolveDay(day))
	baseIDs := dedupeBaseIDs(eventIDs)
	return s.completions.BatchStatus(ctx, baseIDs, key)
}

// CompletionHistory returns the days a task was completed, newest first,
// along with the current streak: consecutive completed days ending today, or
// ending yesterday when today is not done yet.
func (s *Service) CompletionHistory(ctx context.Context, eventID string) ([]string, int, error) {
	baseID := NormalizeEventID(eventID)
	days, err := s.completions.CompletedDays(ctx, baseID)
	if err != nil {
		return nil, 0, err
	}

	cursor := dateOf(s.clock.Now())
	if len(days) > 0 && days[0] != dayKey(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for _, day := range days {
		if day != dayKey(cursor) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return days, streak, nil
}

// dedupeBaseIDs normalizes ids and removes duplicates, preserving order.
// Recurring events expand to many occurrences of one base id.
func dedupeBaseIDs(eventIDs []string) []string {
	seen := make(map[string]bool, len(eventIDs))
	out := make([]string, 0, len(eventIDs))
	for _, id := range eventIDs {
		if id == "" {
			continue
		}
		base := NormalizeEventID(id)
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, base)
	}
	return out
}
