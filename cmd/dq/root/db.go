package root

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dayquest/internal/calendar"
	"dayquest/internal/config"
	"dayquest/internal/engine"
	"dayquest/internal/logging"
	"dayquest/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	cfg := config.Load()
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openService wires the engine without calendar access (interactive
// completion and sessions need no network).
func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewService(db, engine.WithLogger(logging.FromContext(ctx))), cleanup, nil
}

// openServiceWithCalendar additionally attaches the calendar collaborator
// using the cached token; the engine sees an unauthenticated source when no
// token is cached.
func openServiceWithCalendar(ctx context.Context) (*engine.Service, *calendar.Client, func(), error) {
	cfg := config.Load()
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	client := calendar.NewClientIfReady(ctx, cfg.CalendarID)
	svc := engine.NewService(db,
		engine.WithEventSource(client),
		engine.WithLogger(logging.FromContext(ctx)),
	)
	return svc, client, cleanup, nil
}

// openCalendar returns the calendar client alone, for commands that only
// manage events and never touch the local database.
func openCalendar(ctx context.Context) (*calendar.Client, error) {
	cfg := config.Load()
	client := calendar.NewClientIfReady(ctx, cfg.CalendarID)
	if !client.Ready() {
		return nil, fmt.Errorf("calendar not authenticated; run: dq auth")
	}
	return client, nil
}

// parseDayFlag resolves an optional --day value; zero time means today.
func parseDayFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}
