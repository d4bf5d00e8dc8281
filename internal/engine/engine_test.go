package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dayquest/internal/calendar"
	"dayquest/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

type fakeEvents struct {
	ready bool
	days  map[string][]calendar.Event
	fails map[string]error
	calls []string
}

func (f *fakeEvents) Ready() bool { return f.ready }

func (f *fakeEvents) ListDay(_ context.Context, day time.Time) ([]calendar.Event, error) {
	key := day.Format("2006-01-02")
	f.calls = append(f.calls, key)
	if err := f.fails[key]; err != nil {
		return nil, err
	}
	return f.days[key], nil
}

func event(id string) calendar.Event {
	return calendar.Event{ID: id, Title: id}
}

func daysMap(day time.Time, events ...calendar.Event) map[string][]calendar.Event {
	return map[string][]calendar.Event{day.Format("2006-01-02"): events}
}

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeClock, func()) {
	t.Helper()
	ctx := context.Background()

	clock := &fakeClock{now: time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)}

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	all := append([]Option{WithClock(clock)}, opts...)
	svc := NewService(db, all...)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, clock, cleanup
}

func totalXP(t *testing.T, svc *Service) int {
	t.Helper()
	total, err := svc.XPRepo().Total(context.Background())
	if err != nil {
		t.Fatalf("xp total: %v", err)
	}
	return total
}

func TestMarkDoneIsDayScoped(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	today := clock.Now()
	if _, err := svc.MarkTaskDone(ctx, "ev1", "wrote the report", today); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}

	done, err := svc.IsTaskDone(ctx, "ev1", today)
	if err != nil {
		t.Fatalf("IsTaskDone: %v", err)
	}
	if !done {
		t.Fatalf("expected done for today")
	}

	otherDays := []time.Time{today.AddDate(0, 0, -1), today.AddDate(0, 0, 1)}
	for _, d := range otherDays {
		done, err := svc.IsTaskDone(ctx, "ev1", d)
		if err != nil {
			t.Fatalf("IsTaskDone(%v): %v", d, err)
		}
		if done {
			t.Fatalf("expected not done for %v", d)
		}
	}
}

func TestMarkDoneRejectsEmptyDescription(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.MarkTaskDone(context.Background(), "ev1", "   ", time.Time{})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if totalXP(t, svc) != 0 {
		t.Fatalf("validation failure must not touch XP")
	}
}

func TestMarkDoneAwardsXPOnce(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.MarkTaskDone(ctx, "ev1", "did it", time.Time{})
	if err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}
	if res.XPAwarded != XPPerTask {
		t.Fatalf("XPAwarded=%d, want %d", res.XPAwarded, XPPerTask)
	}

	res, err = svc.MarkTaskDone(ctx, "ev1", "did it again", time.Time{})
	if err != nil {
		t.Fatalf("MarkTaskDone second: %v", err)
	}
	if !res.AlreadyDone {
		t.Fatalf("expected AlreadyDone on second mark")
	}
	if res.XPAwarded != 0 {
		t.Fatalf("second mark must not re-award XP")
	}
	if got := totalXP(t, svc); got != XPPerTask {
		t.Fatalf("total=%d, want %d", got, XPPerTask)
	}
}

func TestMarkUndoneDeductsAndRestores(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.MarkTaskDone(ctx, "ev1", "done", time.Time{}); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}

	res, err := svc.MarkTaskUndone(ctx, "ev1", time.Time{})
	if err != nil {
		t.Fatalf("MarkTaskUndone: %v", err)
	}
	if !res.WasDone || res.XPDeducted != XPPerTask {
		t.Fatalf("undo result = %+v, want WasDone with %d deducted", res, XPPerTask)
	}
	if got := totalXP(t, svc); got != 0 {
		t.Fatalf("total=%d, want 0 after undo", got)
	}

	done, err := svc.IsTaskDone(ctx, "ev1", time.Time{})
	if err != nil {
		t.Fatalf("IsTaskDone: %v", err)
	}
	if done {
		t.Fatalf("expected not done after undo")
	}

	// Undoing again (nothing done) is a no-op success with no deduction.
	res, err = svc.MarkTaskUndone(ctx, "ev1", time.Time{})
	if err != nil {
		t.Fatalf("MarkTaskUndone no-op: %v", err)
	}
	if res.WasDone || res.XPDeducted != 0 {
		t.Fatalf("no-op undo must not deduct, got %+v", res)
	}
	if got := totalXP(t, svc); got != 0 {
		t.Fatalf("total=%d, want 0 after no-op undo", got)
	}
}

// blockInserts installs a trigger that rejects every insert into table,
// simulating a ledger that has become unwritable.
func blockInserts(t *testing.T, svc *Service, table string) {
	t.Helper()
	stmt := fmt.Sprintf(
		"CREATE TRIGGER block_%s BEFORE INSERT ON %s BEGIN SELECT RAISE(ABORT, 'table unavailable'); END",
		table, table)
	if _, err := svc.db.ExecContext(context.Background(), stmt); err != nil {
		t.Fatalf("install trigger: %v", err)
	}
}

func TestMarkDoneWarnsWhenXPWriteFails(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	blockInserts(t, svc, "xp_transactions")

	res, err := svc.MarkTaskDone(ctx, "ev1", "did it", time.Time{})
	if err != nil {
		t.Fatalf("a failed XP write must not fail the mark: %v", err)
	}
	if res.XPAwarded != 0 {
		t.Fatalf("XPAwarded=%d, want 0 when the ledger write fails", res.XPAwarded)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "XP award failed") {
		t.Fatalf("warnings = %v, want one XP-award warning", res.Warnings)
	}

	// The completion stuck even though the ledger write rolled back.
	done, err := svc.IsTaskDone(ctx, "ev1", time.Time{})
	if err != nil || !done {
		t.Fatalf("IsTaskDone: %v done=%v, want done", err, done)
	}
	if got := totalXP(t, svc); got != 0 {
		t.Fatalf("total=%d, want 0", got)
	}
}

func TestMarkUndoneWarnsWhenXPWriteFails(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.MarkTaskDone(ctx, "ev1", "did it", time.Time{}); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}
	blockInserts(t, svc, "xp_transactions")

	res, err := svc.MarkTaskUndone(ctx, "ev1", time.Time{})
	if err != nil {
		t.Fatalf("a failed XP write must not fail the undo: %v", err)
	}
	if !res.WasDone || res.XPDeducted != 0 {
		t.Fatalf("result = %+v, want WasDone with no deduction recorded", res)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "XP deduction failed") {
		t.Fatalf("warnings = %v, want one XP-deduction warning", res.Warnings)
	}

	done, err := svc.IsTaskDone(ctx, "ev1", time.Time{})
	if err != nil || done {
		t.Fatalf("IsTaskDone: %v done=%v, want undone", err, done)
	}
}

func TestBackdatedCompletionAttributesXPToDay(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	yesterday := clock.Now().AddDate(0, 0, -1)
	if _, err := svc.MarkTaskDone(ctx, "ev1", "late entry", yesterday); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}

	txns, err := svc.XPRepo().Transactions(ctx, 1)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txns))
	}
	want := yesterday.Format("2006-01-02")
	if got := txns[0].CreatedAt.Local().Format("2006-01-02"); got != want {
		t.Fatalf("transaction dated %s, want %s", got, want)
	}
}

func TestBatchCompletionStatus(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.MarkTaskDone(ctx, "ev1", "done", time.Time{}); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}

	statuses, err := svc.BatchCompletionStatus(ctx, []string{
		"ev1",
		"ev1_2024-05-02T10:00:00Z", // same base id
		"ev2",
	}, time.Time{})
	if err != nil {
		t.Fatalf("BatchCompletionStatus: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 base ids, got %d", len(statuses))
	}
	if st := statuses["ev1"]; !st.Done || st.CompletedAt == nil || st.Description == nil {
		t.Fatalf("ev1 status = %+v, want done with instant and description", st)
	}
	if st := statuses["ev2"]; st.Done || st.CompletedAt != nil {
		t.Fatalf("ev2 must report the zero status, got %+v", st)
	}
}

func TestCompletionHistoryStreak(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	days, streak, err := svc.CompletionHistory(ctx, "ev1")
	if err != nil {
		t.Fatalf("CompletionHistory: %v", err)
	}
	if len(days) != 0 || streak != 0 {
		t.Fatalf("fresh task history = %v streak=%d", days, streak)
	}

	// Done yesterday and the day before, not yet today: the streak holds.
	today := clock.Now()
	for offset := 1; offset <= 2; offset++ {
		if _, err := svc.MarkTaskDone(ctx, "ev1", "done", today.AddDate(0, 0, -offset)); err != nil {
			t.Fatalf("MarkTaskDone: %v", err)
		}
	}
	days, streak, err = svc.CompletionHistory(ctx, "ev1")
	if err != nil {
		t.Fatalf("CompletionHistory: %v", err)
	}
	if streak != 2 {
		t.Fatalf("streak=%d, want 2 ending yesterday", streak)
	}
	if len(days) != 2 || days[0] != today.AddDate(0, 0, -1).Format("2006-01-02") {
		t.Fatalf("days = %v, want newest first", days)
	}

	// A gap three days back does not extend the streak.
	if _, err := svc.MarkTaskDone(ctx, "ev1", "done", today.AddDate(0, 0, -4)); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}
	_, streak, err = svc.CompletionHistory(ctx, "ev1")
	if err != nil {
		t.Fatalf("CompletionHistory: %v", err)
	}
	if streak != 2 {
		t.Fatalf("streak=%d, want 2 despite older completion", streak)
	}

	// Completing today extends it to three.
	if _, err := svc.MarkTaskDone(ctx, "ev1", "done", today); err != nil {
		t.Fatalf("MarkTaskDone: %v", err)
	}
	_, streak, err = svc.CompletionHistory(ctx, "ev1")
	if err != nil {
		t.Fatalf("CompletionHistory: %v", err)
	}
	if streak != 3 {
		t.Fatalf("streak=%d, want 3 ending today", streak)
	}
}

func TestStartSessionPausesExisting(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	first, err := svc.StartSession(ctx, "ev1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	clock.advance(90 * time.Second)

	second, err := svc.StartSession(ctx, "ev1")
	if err != nil {
		t.Fatalf("StartSession second: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a fresh session")
	}
	if second.DurationSeconds != 0 {
		t.Fatalf("fresh session duration=%d, want 0", second.DurationSeconds)
	}

	sessions, err := svc.SessionRepo().ListStartedBetween(ctx, "ev1", clock.Now().AddDate(0, 0, -1), clock.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListStartedBetween: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	old := sessions[0]
	if old.Status != storage.SessionPaused {
		t.Fatalf("old session status=%q, want paused", old.Status)
	}
	if old.DurationSeconds != 90 {
		t.Fatalf("old session duration=%d, want 90", old.DurationSeconds)
	}
}

func TestPauseAndCurrentDuration(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, _, err := svc.CurrentDuration(ctx, "ev1"); err != nil {
		t.Fatalf("CurrentDuration: %v", err)
	}
	if _, ok, _ := svc.CurrentDuration(ctx, "ev1"); ok {
		t.Fatalf("expected no duration without sessions")
	}

	if _, err := svc.StartSession(ctx, "ev1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	clock.advance(30 * time.Second)

	seconds, ok, err := svc.CurrentDuration(ctx, "ev1")
	if err != nil || !ok {
		t.Fatalf("CurrentDuration running: %v ok=%v", err, ok)
	}
	if seconds != 30 {
		t.Fatalf("live duration=%d, want 30", seconds)
	}

	paused, err := svc.PauseSession(ctx, "ev1")
	if err != nil || !paused {
		t.Fatalf("PauseSession: %v paused=%v", err, paused)
	}

	clock.advance(10 * time.Minute)
	seconds, ok, err = svc.CurrentDuration(ctx, "ev1")
	if err != nil || !ok {
		t.Fatalf("CurrentDuration paused: %v ok=%v", err, ok)
	}
	if seconds != 30 {
		t.Fatalf("frozen duration=%d, want 30", seconds)
	}

	// Resuming starts a fresh session; the day total accumulates across both.
	if _, err := svc.StartSession(ctx, "ev1"); err != nil {
		t.Fatalf("StartSession resume: %v", err)
	}
	clock.advance(15 * time.Second)
	if paused, err := svc.PauseSession(ctx, "ev1"); err != nil || !paused {
		t.Fatalf("PauseSession resume: %v paused=%v", err, paused)
	}
	total, err := svc.TimeSpentOnDay(ctx, "ev1", clock.Now())
	if err != nil {
		t.Fatalf("TimeSpentOnDay: %v", err)
	}
	if total != 45 {
		t.Fatalf("day total=%d, want 45", total)
	}
}

func TestPauseWithoutRunningSession(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	paused, err := svc.PauseSession(context.Background(), "ev1")
	if err != nil {
		t.Fatalf("PauseSession: %v", err)
	}
	if paused {
		t.Fatalf("expected false when nothing is running")
	}
}

func TestXPForTotal(t *testing.T) {
	cases := []struct {
		total     int
		level     int
		inLevel   int
		toNext    int
	}{
		{0, 1, 0, 100},
		{99, 1, 99, 1},
		{100, 2, 0, 100},
		{250, 3, 50, 50},
		{-150, 0, 150, 150},
	}
	for _, c := range cases {
		info := XPForTotal(c.total)
		if info.Level != c.level || info.XPInLevel != c.inLevel || info.XPToNext != c.toNext {
			t.Fatalf("XPForTotal(%d) = %+v, want level %d inLevel %d toNext %d",
				c.total, info, c.level, c.inLevel, c.toNext)
		}
	}
}
