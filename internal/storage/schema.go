package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// One completion row per (event, local calendar day). Recurring events
		// are stored under their base id, so every occurrence shares bookkeeping.
		`CREATE TABLE IF NOT EXISTS event_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			day TEXT NOT NULL,
			is_done INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			description TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(event_id, day)
		);`,
		`CREATE TABLE IF NOT EXISTS task_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		// Singleton running total; the transaction log is the audit trail.
		`CREATE TABLE IF NOT EXISTS user_xp (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_xp INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS xp_transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			points INTEGER NOT NULL,
			event_id TEXT,
			description TEXT NOT NULL,
			total_xp_after INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS xp_deduction_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_date TEXT NOT NULL UNIQUE,
			pending_count INTEGER NOT NULL,
			deducted_count INTEGER NOT NULL,
			total_xp_deducted INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_event_completions_event_day ON event_completions(event_id, day);`,
		`CREATE INDEX IF NOT EXISTS idx_task_sessions_event_status ON task_sessions(event_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_task_sessions_start_time ON task_sessions(start_time);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_transactions_created_at ON xp_transactions(created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
