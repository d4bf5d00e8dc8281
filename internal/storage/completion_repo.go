package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type CompletionRepo struct {
	db DBTX
}

func NewCompletionRepo(db DBTX) *CompletionRepo {
	return &CompletionRepo{db: db}
}

const completionColumns = `id, event_id, day, is_done, completed_at, description, created_at, updated_at`

func (r *CompletionRepo) Get(ctx context.Context, eventID string, day string) (*EventCompletion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+completionColumns+`
		FROM event_completions
		WHERE event_id = ? AND day = ?
	`, eventID, day)
	return scanCompletion(row)
}

// IsDone reports whether a done record exists for (eventID, day).
func (r *CompletionRepo) IsDone(ctx context.Context, eventID string, day string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM event_completions
		WHERE event_id = ? AND day = ? AND is_done = 1
		LIMIT 1
	`, eventID, day)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("completion is done: %w", err)
	}
	return true, nil
}

// MarkDone upserts the (eventID, day) record as done with the given instant
// and description.
func (r *CompletionRepo) MarkDone(ctx context.Context, eventID string, day string, description string, completedAt time.Time) (*EventCompletion, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_completions (event_id, day, is_done, completed_at, description, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(event_id, day) DO UPDATE SET
			is_done = 1,
			completed_at = excluded.completed_at,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, eventID, day, completedAt, description, now, now)
	if err != nil {
		return nil, fmt.Errorf("completion mark done: %w", err)
	}
	return r.Get(ctx, eventID, day)
}

// MarkUndone flips the record back to not-done and clears the completion
// instant and description. Returns nil when no record existed.
func (r *CompletionRepo) MarkUndone(ctx context.Context, eventID string, day string) (*EventCompletion, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE event_completions
		SET is_done = 0, completed_at = NULL, description = NULL, updated_at = ?
		WHERE event_id = ? AND day = ?
	`, time.Now(), eventID, day)
	if err != nil {
		return nil, fmt.Errorf("completion mark undone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("completion mark undone rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, eventID, day)
}

// BatchStatus returns the completion status of every given event for one day
// in a single query. Events without a row report the zero CompletionStatus.
func (r *CompletionRepo) BatchStatus(ctx context.Context, eventIDs []string, day string) (map[string]CompletionStatus, error) {
	out := make(map[string]CompletionStatus, len(eventIDs))
	for _, id := range eventIDs {
		out[id] = CompletionStatus{}
	}
	if len(eventIDs) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(eventIDs)-1) + "?"
	args := make([]any, 0, len(eventIDs)+1)
	for _, id := range eventIDs {
		args = append(args, id)
	}
	args = append(args, day)

	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, is_done, completed_at, description
		FROM event_completions
		WHERE event_id IN (`+placeholders+`) AND day = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("completion batch status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventID     string
			done        int
			completedAt sql.NullTime
			description sql.NullString
		)
		if err := rows.Scan(&eventID, &done, &completedAt, &description); err != nil {
			return nil, fmt.Errorf("completion batch scan: %w", err)
		}
		st := CompletionStatus{Done: done != 0}
		if completedAt.Valid {
			v := completedAt.Time
			st.CompletedAt = &v
		}
		if description.Valid {
			v := description.String
			st.Description = &v
		}
		out[eventID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion batch rows: %w", err)
	}
	return out, nil
}

// DoneCountsBetween counts done tasks per day for days in [fromDay, toDay],
// inclusive. Days with no completions are absent from the map.
func (r *CompletionRepo) DoneCountsBetween(ctx context.Context, fromDay, toDay string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, COUNT(*) FROM event_completions
		WHERE is_done = 1 AND day >= ? AND day <= ?
		GROUP BY day
	`, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("completion counts: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			day   string
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("completion counts scan: %w", err)
		}
		out[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion counts rows: %w", err)
	}
	return out, nil
}

// CompletedDays lists the days on which eventID was marked done, newest first.
func (r *CompletionRepo) CompletedDays(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day FROM event_completions
		WHERE event_id = ? AND is_done = 1
		ORDER BY day DESC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("completion days: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("completion days scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion days rows: %w", err)
	}
	return out, nil
}

func scanCompletion(row *sql.Row) (*EventCompletion, error) {
	var (
		c           EventCompletion
		done        int
		completedAt sql.NullTime
		description sql.NullString
	)
	if err := row.Scan(&c.ID, &c.EventID, &c.Day, &done, &completedAt, &description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("completion scan: %w", err)
	}
	c.Done = done != 0
	if completedAt.Valid {
		v := completedAt.Time
		c.CompletedAt = &v
	}
	if description.Valid {
		v := description.String
		c.Description = &v
	}
	return &c, nil
}
