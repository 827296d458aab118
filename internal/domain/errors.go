package domain

import "errors"

var (
	// ErrDailyCompleted is returned when a session tries to start or finish
	// the daily challenge again on a date it has already completed.
	ErrDailyCompleted = errors.New("daily challenge already completed")
	// ErrSeasonUnavailable indicates season stats could not be loaded.
	ErrSeasonUnavailable = errors.New("season data unavailable")
	// ErrZeroLeader indicates a degenerate leader value of zero, which
	// cannot be scored against.
	ErrZeroLeader = errors.New("leader value is zero")
	// ErrNoEligiblePlayers indicates a sampled season/position combination
	// has no candidate pool; question assembly re-samples on it.
	ErrNoEligiblePlayers = errors.New("no eligible players for position and season")
	// ErrQuestionOutOfRange indicates a guess referenced a question index
	// outside the round.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrRoundComplete is returned when a guess arrives after all five
	// questions have been answered.
	ErrRoundComplete = errors.New("round already complete")
)

// Retryable reports whether an error should be surfaced to the player as a
// transient data problem rather than a rule violation.
func Retryable(err error) bool {
	return errors.Is(err, ErrSeasonUnavailable) || errors.Is(err, ErrZeroLeader)
}
