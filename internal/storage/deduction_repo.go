package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DeductionRepo tracks the at-most-once-per-day reconciliation markers. The
// latest row's run_date is the authoritative "last run" pointer.
type DeductionRepo struct {
	db DBTX
}

func NewDeductionRepo(db DBTX) *DeductionRepo {
	return &DeductionRepo{db: db}
}

// LastRunDate returns the most recent marker date, or nil if none exists.
func (r *DeductionRepo) LastRunDate(ctx context.Context) (*time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT run_date FROM xp_deduction_runs
		ORDER BY run_date DESC
		LIMIT 1
	`)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("deduction last run: %w", err)
	}
	d, err := time.ParseInLocation(DayFormat, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("deduction parse run date %q: %w", raw, err)
	}
	return &d, nil
}

// HasRunOn reports whether a marker exists for the given day.
func (r *DeductionRepo) HasRunOn(ctx context.Context, day string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM xp_deduction_runs WHERE run_date = ? LIMIT 1
	`, day)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("deduction has run: %w", err)
	}
	return true, nil
}

// RecordRun writes the marker for day with the pass's aggregated counters.
func (r *DeductionRepo) RecordRun(ctx context.Context, day string, pendingCount, deductedCount, totalXPDeducted int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO xp_deduction_runs (run_date, pending_count, deducted_count, total_xp_deducted, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, day, pendingCount, deductedCount, totalXPDeducted, time.Now())
	if err != nil {
		return fmt.Errorf("deduction record run: %w", err)
	}
	return nil
}
