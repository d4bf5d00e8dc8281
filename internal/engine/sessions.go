package engine

import (
	"context"
	"time"

	"dayquest/internal/storage"
)

// StartSession begins tracking time on a task. Any session already running
// for the task is frozen first (its elapsed time is added to the accumulated
// duration) so at most one session per task is ever running.
func (s *Service) StartSession(ctx context.Context, eventID string) (*storage.TaskSession, error) {
	baseID := NormalizeEventID(eventID)
	now := s.clock.Now()

	var created *storage.TaskSession
	err := storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		repo := storage.NewSessionRepo(tx)
		running, err := repo.Running(ctx, baseID)
		if err != nil {
			return err
		}
		if running != nil {
			if err := repo.Freeze(ctx, running, now); err != nil {
				return err
			}
		}
		created, err = repo.Insert(ctx, baseID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PauseSession freezes the running session for a task. Returns false when no
// session is running.
func (s *Service) PauseSession(ctx context.Context, eventID string) (bool, error) {
	baseID := NormalizeEventID(eventID)
	now := s.clock.Now()

	paused := false
	err := storage.WithTx(ctx, s.db, func(tx storage.DBTX) error {
		repo := storage.NewSessionRepo(tx)
		running, err := repo.Running(ctx, baseID)
		if err != nil {
			return err
		}
		if running == nil {
			return nil
		}
		if err := repo.Freeze(ctx, running, now); err != nil {
			return err
		}
		paused = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return paused, nil
}

// ActiveSession returns the running session for a task, or nil.
func (s *Service) ActiveSession(ctx context.Context, eventID string) (*storage.TaskSession, error) {
	return s.sessions.Running(ctx, NormalizeEventID(eventID))
}

// CurrentDuration returns the task's current tracked duration in seconds:
// live for a running session, frozen for a paused one. ok is false when the
// task has no session at all.
func (s *Service) CurrentDuration(ctx context.Context, eventID string) (seconds int64, ok bool, err error) {
	baseID := NormalizeEventID(eventID)
	sess, err := s.sessions.Latest(ctx, baseID)
	if err != nil {
		return 0, false, err
	}
	if sess == nil {
		return 0, false, nil
	}
	return s.sessionDuration(sess), true, nil
}

// TimeSpentOnDay sums session durations for sessions that started on the
// given local day: frozen durations for paused/done sessions, live for a
// running one.
func (s *Service) TimeSpentOnDay(ctx context.Context, eventID string, day time.Time) (int64, error) {
	baseID := NormalizeEventID(eventID)
	d := s.resolveDay(day)
	sessions, err := s.sessions.ListStartedBetween(ctx, baseID, d, d.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}
	var total int64
	for i := range sessions {
		total += s.sessionDuration(&sessions[i])
	}
	return total, nil
}

func (s *Service) sessionDuration(sess *storage.TaskSession) int64 {
	if sess.Status != storage.SessionRunning {
		return sess.DurationSeconds
	}
	elapsed := int64(s.clock.Now().Sub(sess.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return sess.DurationSeconds + elapsed
}
