package app_test

import (
	"errors"
	"testing"
	"time"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/domain"
)

func TestSeedForDateStableAndDistinct(t *testing.T) {
	s1, err := app.SeedForDate("2026-01-05")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	s2, err := app.SeedForDate("2026-01-05")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected stable seed, got %d and %d", s1, s2)
	}
	if s1 != 20260105 {
		t.Fatalf("expected date digits as seed, got %d", s1)
	}

	seen := map[int64]string{}
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		date := day.AddDate(0, 0, i).Format("2006-01-02")
		seed, err := app.SeedForDate(date)
		if err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
		if prev, dup := seen[seed]; dup {
			t.Fatalf("seed %d collides for %s and %s", seed, prev, date)
		}
		seen[seed] = date
	}
}

func TestSeedForDateRejectsGarbage(t *testing.T) {
	if _, err := app.SeedForDate("not-a-date"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	state := domain.DailyState{Date: "2026-01-05", Completed: true, Score: 42000}

	same := app.Reconcile(state, "2026-01-05")
	if same.Completed != true || same.Score != 42000 {
		t.Fatalf("expected state unchanged on same date, got %+v", same)
	}
	again := app.Reconcile(same, "2026-01-05")
	if again.Date != same.Date || again.Completed != same.Completed || again.Score != same.Score {
		t.Fatalf("expected reconcile to be a no-op when repeated, got %+v", again)
	}
}

func TestReconcileResetsOnRollover(t *testing.T) {
	state := domain.DailyState{Date: "2026-01-05", Completed: true, Score: 42000}

	next := app.Reconcile(state, "2026-01-06")
	if next.Completed {
		t.Fatalf("expected NotStarted after date advance, got %+v", next)
	}
	if next.Date != "2026-01-06" || next.Score != 0 || len(next.Results) != 0 {
		t.Fatalf("expected fresh state for new date, got %+v", next)
	}
}

func TestMarkCompletedOnce(t *testing.T) {
	state := domain.DailyState{Date: "2026-01-05"}
	results := []domain.GuessResult{{QuestionIndex: 0, Points: 10000}}

	state, err := app.MarkCompleted(state, 10000, app.MaxRoundScore, results)
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if !state.Completed || state.Score != 10000 || len(state.Results) != 1 {
		t.Fatalf("unexpected completed state %+v", state)
	}

	if _, err := app.MarkCompleted(state, 50000, app.MaxRoundScore, nil); !errors.Is(err, domain.ErrDailyCompleted) {
		t.Fatalf("expected ErrDailyCompleted on second completion, got %v", err)
	}
	if state.Score != 10000 {
		t.Fatalf("failed completion must not corrupt stored score, got %d", state.Score)
	}
}

func TestCurrentUTCDateUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	// 23:30 on Jan 4 in UTC-8 is already Jan 5 in UTC.
	now := func() time.Time { return time.Date(2026, 1, 4, 23, 30, 0, 0, loc) }
	if got := app.CurrentUTCDate(now); got != "2026-01-05" {
		t.Fatalf("expected 2026-01-05, got %s", got)
	}
}
