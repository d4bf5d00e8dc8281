package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dayquest/internal/storage"
)

// ReconcileResult is the structured outcome of one catch-up pass, aggregated
// across every missed day it processed.
type ReconcileResult struct {
	Success          bool
	PendingCount     int
	DeductedCount    int
	TotalXPDeducted  int
	RunningFinalized int
	RunningXPAwarded int
	DaysProcessed    int
	Message          string
	Warnings         []string
}

// ShouldRunDailyReconciliation reports whether the catch-up has not yet run
// today. Repeated calls within the same day are cheap no-ops for callers.
func (s *Service) ShouldRunDailyReconciliation(ctx context.Context) (bool, error) {
	ran, err := s.deductions.HasRunOn(ctx, dayKey(s.clock.Now()))
	if err != nil {
		return false, err
	}
	return !ran, nil
}

// RunDailyReconciliation walks every day since the last recorded run,
// penalizes tasks left incomplete and finalizes timers left running, then
// writes exactly one marker for today. Errors never escape: failures are
// folded into the result so the host process keeps going and the pass is
// retried on the next eligible trigger (no marker is written on failure).
func (s *Service) RunDailyReconciliation(ctx context.Context) *ReconcileResult {
	if s.events == nil || !s.events.Ready() {
		return &ReconcileResult{Message: "calendar service not authenticated"}
	}

	now := s.clock.Now()
	today := dateOf(now)

	last, err := s.deductions.LastRunDate(ctx)
	if err != nil {
		s.log.Error("reconciliation aborted", "error", err)
		return &ReconcileResult{Message: fmt.Sprintf("error: %v", err)}
	}

	daysSince := 1
	if last != nil {
		daysSince = daysBetween(*last, today)
	}
	if daysSince == 0 {
		return &ReconcileResult{Success: true, Message: "reconciliation already ran today"}
	}
	if daysSince < 0 {
		// Marker in the future means clock skew; fall back to checking yesterday.
		daysSince = 1
	}

	res := &ReconcileResult{}

	// Oldest missed day first. Sequential on purpose: a session frozen while
	// finalizing one day must be visible to the next day's classification.
	for offset := daysSince; offset >= 1; offset-- {
		checkDate := today.AddDate(0, 0, -offset)
		res.DaysProcessed++

		if err := s.reconcileDay(ctx, checkDate, res); err != nil {
			// A single day's fetch failure must not abort the whole catch-up.
			s.log.Warn("skipping day in reconciliation", "day", dayKey(checkDate), "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", dayKey(checkDate), err))
		}
	}

	if err := s.deductions.RecordRun(ctx, dayKey(today), res.PendingCount, res.DeductedCount, res.TotalXPDeducted); err != nil {
		s.log.Error("failed to record reconciliation marker", "error", err)
		res.Success = false
		res.Message = fmt.Sprintf("error: %v", err)
		return res
	}

	res.Success = true
	res.Message = summarize(res)
	s.log.Info("daily reconciliation finished",
		"days", res.DaysProcessed,
		"pending", res.PendingCount,
		"xp_deducted", res.TotalXPDeducted,
		"timers_finalized", res.RunningFinalized,
	)
	return res
}

// reconcileDay classifies every task that had an occurrence on checkDate and
// applies the per-day XP rules. Only a fetch failure is returned; per-item
// failures are contained.
func (s *Service) reconcileDay(ctx context.Context, checkDate time.Time, res *ReconcileResult) error {
	events, err := s.events.ListDay(ctx, checkDate)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	baseIDs := dedupeBaseIDs(ids)

	key := dayKey(checkDate)
	statuses, err := s.completions.BatchStatus(ctx, baseIDs, key)
	if err != nil {
		return fmt.Errorf("batch status: %w", err)
	}

	var pending []string
	for _, baseID := range baseIDs {
		st := statuses[baseID]
		// A done flag without a completion instant is missing evidence;
		// treat it as not completed rather than silently skip the deduction.
		if st.Done && st.CompletedAt != nil {
			continue
		}

		running, err := s.sessions.Running(ctx, baseID)
		if err != nil {
			s.log.Warn("session lookup failed, treating task as pending", "event_id", baseID, "error", err)
			pending = append(pending, baseID)
			continue
		}

		// Auto-finalize only timers started on the day under review. A
		// session spanning several missed days belongs to its start day
		// alone; on every other day the task is ordinary pending.
		if running != nil && sameDay(running.StartTime, checkDate) {
			if err := s.finalizeRunning(ctx, baseID, checkDate, res); err != nil {
				s.log.Warn("auto-finalize failed, reclassifying as pending", "event_id", baseID, "error", err)
				res.Warnings = append(res.Warnings, fmt.Sprintf("finalize %s: %v", baseID, err))
				pending = append(pending, baseID)
			}
			continue
		}

		pending = append(pending, baseID)
	}

	// Deductions are timestamped at the end of the missed day so date-based
	// audits attribute the penalty to the day it was earned.
	eod := endOfDay(checkDate)
	for _, baseID := range pending {
		res.PendingCount++
		desc := fmt.Sprintf("Task not completed on %s: %s", key, baseID)
		err := storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
			return storage.NewXPRepo(tx).Add(ctx, -XPPerTask, baseID, desc, eod)
		})
		if err != nil {
			s.log.Warn("xp deduction failed", "event_id", baseID, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("deduct %s: %v", baseID, err))
			continue
		}
		res.DeductedCount++
		res.TotalXPDeducted += XPPerTask
	}
	return nil
}

// finalizeRunning handles a timer the user forgot to stop: freeze the
// session, complete the task for that day at its last instant, and award XP
// attributed to that day.
func (s *Service) finalizeRunning(ctx context.Context, baseID string, checkDate time.Time, res *ReconcileResult) error {
	eod := endOfDay(checkDate)
	key := dayKey(checkDate)

	err := storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		repo := storage.NewSessionRepo(tx)
		running, err := repo.Running(ctx, baseID)
		if err != nil {
			return err
		}
		if running != nil {
			if err := repo.Freeze(ctx, running, eod); err != nil {
				return err
			}
		}
		_, err = storage.NewCompletionRepo(tx).MarkDone(ctx, baseID, key,
			fmt.Sprintf("Auto-completed: timer was still running on %s", key), eod)
		return err
	})
	if err != nil {
		return err
	}
	res.RunningFinalized++

	err = storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		return storage.NewXPRepo(tx).Add(ctx, XPPerTask, baseID, fmt.Sprintf("Task completed: %s", baseID), eod)
	})
	if err != nil {
		// Completion already stuck; same soft dependency as interactive marks.
		s.log.Warn("xp award failed after auto-finalize", "event_id", baseID, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("finalize xp %s: %v", baseID, err))
		return nil
	}
	res.RunningXPAwarded += XPPerTask
	return nil
}

func summarize(res *ReconcileResult) string {
	var b strings.Builder
	if res.PendingCount == 0 {
		b.WriteString("No pending tasks found")
	} else {
		fmt.Fprintf(&b, "Deducted %d XP for %d pending task(s)", res.TotalXPDeducted, res.DeductedCount)
	}
	if res.DaysProcessed > 1 {
		fmt.Fprintf(&b, " across %d day(s)", res.DaysProcessed)
	}
	if res.RunningFinalized > 0 {
		fmt.Fprintf(&b, "; auto-stopped %d timer(s) (+%d XP)", res.RunningFinalized, res.RunningXPAwarded)
	}
	return b.String()
}
