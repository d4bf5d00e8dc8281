package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionColumns = `id, event_id, start_time, end_time, duration_seconds, status, created_at, updated_at`

// Running returns the running session for an event, newest first if the
// single-running invariant was ever violated.
func (r *SessionRepo) Running(ctx context.Context, eventID string) (*TaskSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM task_sessions
		WHERE event_id = ? AND status = ?
		ORDER BY start_time DESC
		LIMIT 1
	`, eventID, SessionRunning)
	return scanSession(row)
}

// Latest returns the most recently started session for an event, any status.
func (r *SessionRepo) Latest(ctx context.Context, eventID string) (*TaskSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM task_sessions
		WHERE event_id = ?
		ORDER BY start_time DESC
		LIMIT 1
	`, eventID)
	return scanSession(row)
}

// Insert creates a new running session starting at now.
func (r *SessionRepo) Insert(ctx context.Context, eventID string, now time.Time) (*TaskSession, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_sessions (event_id, start_time, duration_seconds, status, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
	`, eventID, now, SessionRunning, now, now)
	if err != nil {
		return nil, fmt.Errorf("session insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("session last insert id: %w", err)
	}
	return &TaskSession{
		ID:        id,
		EventID:   eventID,
		StartTime: now,
		Status:    SessionRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Freeze pauses a running session at the given instant: elapsed time since
// start is added to any accumulated duration and the total is stored.
func (r *SessionRepo) Freeze(ctx context.Context, s *TaskSession, now time.Time) error {
	elapsed := int64(now.Sub(s.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	total := s.DurationSeconds + elapsed
	_, err := r.db.ExecContext(ctx, `
		UPDATE task_sessions
		SET duration_seconds = ?, end_time = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, total, now, SessionPaused, now, s.ID)
	if err != nil {
		return fmt.Errorf("session freeze: %w", err)
	}
	s.DurationSeconds = total
	s.EndTime = &now
	s.Status = SessionPaused
	return nil
}

// ListStartedBetween returns sessions for an event whose start time falls in
// [from, to).
func (r *SessionRepo) ListStartedBetween(ctx context.Context, eventID string, from, to time.Time) ([]TaskSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM task_sessions
		WHERE event_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC
	`, eventID, from, to)
	if err != nil {
		return nil, fmt.Errorf("session list: %w", err)
	}
	defer rows.Close()

	var out []TaskSession
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session list rows: %w", err)
	}
	return out, nil
}

type sessionScanner interface {
	Scan(dest ...any) error
}

func scanSessionFrom(sc sessionScanner) (*TaskSession, error) {
	var (
		s       TaskSession
		endTime sql.NullTime
	)
	if err := sc.Scan(&s.ID, &s.EventID, &s.StartTime, &endTime, &s.DurationSeconds, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("session scan: %w", err)
	}
	if endTime.Valid {
		v := endTime.Time
		s.EndTime = &v
	}
	return &s, nil
}

func scanSession(row *sql.Row) (*TaskSession, error) {
	return scanSessionFrom(row)
}

func scanSessionRows(rows *sql.Rows) (*TaskSession, error) {
	return scanSessionFrom(rows)
}
