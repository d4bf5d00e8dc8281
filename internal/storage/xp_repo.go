package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type XPRepo struct {
	db DBTX
}

func NewXPRepo(db DBTX) *XPRepo {
	return &XPRepo{db: db}
}

// Total returns the running XP total, creating the singleton row at zero on
// first use.
func (r *XPRepo) Total(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT total_xp FROM user_xp WHERE id = 1`)
	var total int
	if err := row.Scan(&total); err != nil {
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("xp total: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, `INSERT INTO user_xp (id, total_xp) VALUES (1, 0)`); err != nil {
			return 0, fmt.Errorf("xp init: %w", err)
		}
		return 0, nil
	}
	return total, nil
}

// Add increments the total by points (negative points deduct) and appends the
// transaction carrying the resulting total. Callers wanting atomicity run it
// inside WithTx.
func (r *XPRepo) Add(ctx context.Context, points int, eventID string, description string, at time.Time) error {
	total, err := r.Total(ctx)
	if err != nil {
		return err
	}
	total += points

	if _, err := r.db.ExecContext(ctx, `UPDATE user_xp SET total_xp = ? WHERE id = 1`, total); err != nil {
		return fmt.Errorf("xp update total: %w", err)
	}

	var eid any
	if eventID != "" {
		eid = eventID
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO xp_transactions (points, event_id, description, total_xp_after, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, points, eid, description, total, at)
	if err != nil {
		return fmt.Errorf("xp log transaction: %w", err)
	}
	return nil
}

// Transactions returns the ledger, newest first. limit <= 0 means all.
func (r *XPRepo) Transactions(ctx context.Context, limit int) ([]XPTransaction, error) {
	q := `
		SELECT id, points, event_id, description, total_xp_after, created_at
		FROM xp_transactions
		ORDER BY created_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("xp transactions: %w", err)
	}
	defer rows.Close()

	var out []XPTransaction
	for rows.Next() {
		var (
			t       XPTransaction
			eventID sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Points, &eventID, &t.Description, &t.TotalXPAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("xp transaction scan: %w", err)
		}
		if eventID.Valid {
			v := eventID.String
			t.EventID = &v
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("xp transaction rows: %w", err)
	}
	return out, nil
}
