package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"dayquest/internal/calendar"
	"dayquest/internal/storage"
)

// EventSource is the calendar collaborator contract the engine consumes. The
// Google adapter in internal/calendar satisfies it; tests use a fake.
type EventSource interface {
	// Ready reports whether the collaborator is authenticated and usable.
	Ready() bool
	// ListDay returns the events whose occurrence falls on the given local day.
	ListDay(ctx context.Context, day time.Time) ([]calendar.Event, error)
}

type Service struct {
	db          *sql.DB
	completions *storage.CompletionRepo
	sessions    *storage.SessionRepo
	xp          *storage.XPRepo
	deductions  *storage.DeductionRepo

	events EventSource // may be nil: reconciliation reports unavailable
	clock  Clock
	log    *slog.Logger
}

type Option func(*Service)

func WithEventSource(src EventSource) Option {
	return func(s *Service) { s.events = src }
}

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:          db,
		completions: storage.NewCompletionRepo(db),
		sessions:    storage.NewSessionRepo(db),
		xp:          storage.NewXPRepo(db),
		deductions:  storage.NewDeductionRepo(db),
		clock:       systemClock{},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }
func (s *Service) SessionRepo() *storage.SessionRepo       { return s.sessions }
func (s *Service) XPRepo() *storage.XPRepo                 { return s.xp }
func (s *Service) DeductionRepo() *storage.DeductionRepo   { return s.deductions }

// XPInfo derives the current level and progress. Side-effect-free apart from
// lazily creating the zero total on first use.
func (s *Service) XPInfo(ctx context.Context) (XPInfo, error) {
	total, err := s.xp.Total(ctx)
	if err != nil {
		return XPInfo{}, err
	}
	return XPForTotal(total), nil
}

// resolveDay defaults a zero day to today and truncates to the local date.
func (s *Service) resolveDay(day time.Time) time.Time {
	if day.IsZero() {
		return dateOf(s.clock.Now())
	}
	return dateOf(day)
}
