package app

import (
	"time"

	"dailydraft-service/internal/domain"
)

const dateLayout = "2006-01-02"

// CurrentUTCDate formats the wall clock as the game's UTC calendar date.
// The clock is injectable so tests can pin a date.
func CurrentUTCDate(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(dateLayout)
}

// SeedForDate maps a YYYY-MM-DD date to a deterministic seed by collapsing
// the date digits (2026-01-05 -> 20260105). Distinct dates always map to
// distinct seeds, and repeated calls for one date always agree.
func SeedForDate(date string) (int64, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, err
	}
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day()), nil
}

// Reconcile is the single authority for day rollover. If the state belongs
// to a different date it returns a fresh NotStarted state for the given
// date; otherwise the state passes through untouched. Idempotent.
func Reconcile(state domain.DailyState, date string) domain.DailyState {
	if state.Date == date {
		return state
	}
	return domain.DailyState{Date: date}
}

// MarkCompleted transitions a daily state to Completed, recording the score
// and per-question results. A state that is already completed cannot be
// overwritten; that guards the once-per-day invariant.
func MarkCompleted(state domain.DailyState, score, maxScore int, results []domain.GuessResult) (domain.DailyState, error) {
	if state.Completed {
		return state, domain.ErrDailyCompleted
	}
	state.Completed = true
	state.Score = score
	state.MaxScore = maxScore
	state.Results = append([]domain.GuessResult(nil), results...)
	return state, nil
}
