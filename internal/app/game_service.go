package app

import (
	"context"
	"time"

	"dailydraft-service/internal/domain"
)

// DailyStateStore abstracts where per-session daily completion lives
// (in-memory, Redis, etc). Implementations must route all reads and writes
// through Reconcile so day rollover has a single authority.
type DailyStateStore interface {
	Get(ctx context.Context, sessionID, date string) (domain.DailyState, error)
	MarkCompleted(ctx context.Context, sessionID, date string, score, maxScore int, results []domain.GuessResult) (domain.DailyState, error)
}

// GameService contains the core game use cases.
type GameService struct {
	builder *RoundBuilder
	seasons SeasonRepository
	states  DailyStateStore
	now     func() time.Time
}

func NewGameService(builder *RoundBuilder, seasons SeasonRepository, states DailyStateStore) *GameService {
	return &GameService{builder: builder, seasons: seasons, states: states, now: time.Now}
}

// NewGameServiceWithClock is test-only for deterministic dates.
func NewGameServiceWithClock(builder *RoundBuilder, seasons SeasonRepository, states DailyStateStore, now func() time.Time) *GameService {
	return &GameService{builder: builder, seasons: seasons, states: states, now: now}
}

// DailyStatus reconciles and returns the session's state for today.
func (s *GameService) DailyStatus(ctx context.Context, sessionID string) (domain.DailyState, error) {
	return s.states.Get(ctx, sessionID, CurrentUTCDate(s.now))
}

// StartDaily builds today's deterministic round. A session that already
// completed today's challenge cannot start it again.
func (s *GameService) StartDaily(ctx context.Context, sessionID string) (*domain.Round, error) {
	date := CurrentUTCDate(s.now)
	state, err := s.states.Get(ctx, sessionID, date)
	if err != nil {
		return nil, err
	}
	if state.Completed {
		return nil, domain.ErrDailyCompleted
	}
	return s.builder.BuildDaily(ctx, date)
}

// StartPractice builds an unrestricted randomized round.
func (s *GameService) StartPractice(ctx context.Context) (*domain.Round, error) {
	return s.builder.BuildPractice(ctx)
}

// SubmitGuess scores the guess for the round's next unanswered question and
// appends the result. An empty playerID counts as no selection and scores
// zero; a guessed player with no recorded stat that season also scores zero
// rather than failing the round.
func (s *GameService) SubmitGuess(ctx context.Context, round *domain.Round, questionIndex int, playerID string) (domain.GuessResult, error) {
	if len(round.Results) >= len(round.Questions) {
		return domain.GuessResult{}, domain.ErrRoundComplete
	}
	if questionIndex != len(round.Results) {
		return domain.GuessResult{}, domain.ErrQuestionOutOfRange
	}

	question := round.Questions[questionIndex]
	result := domain.GuessResult{
		QuestionIndex: questionIndex,
		CorrectID:     question.Leader.PlayerID,
		CorrectName:   question.Leader.Name,
		CorrectValue:  question.Leader.Value,
		EmojiRow:      emojiRowZero,
	}

	// Data-issue slots are unanswerable and always worth zero.
	if question.DataIssue {
		round.Results = append(round.Results, result)
		return result, nil
	}

	if playerID != "" {
		value, name, err := s.guessedStat(ctx, question, playerID)
		if err != nil {
			return domain.GuessResult{}, err
		}
		result.GuessedID = playerID
		result.GuessedName = name
		result.GuessedValue = value
	}

	points, err := ScoreQuestion(result.GuessedValue, question.Leader.Value)
	if err != nil {
		return domain.GuessResult{}, err
	}
	result.Points = points
	result.EmojiRow = EmojiRowForScore(points)

	round.Results = append(round.Results, result)
	return result, nil
}

// CompleteDaily records the finished round against the session's daily
// state. Fails with ErrDailyCompleted if the day was already recorded.
func (s *GameService) CompleteDaily(ctx context.Context, sessionID string, round *domain.Round) (domain.DailyState, error) {
	total := Aggregate(round.Results)
	return s.states.MarkCompleted(ctx, sessionID, round.Date, total, MaxRoundScore, round.Results)
}

// ShareText renders the share block for a completed daily state.
func (s *GameService) ShareText(state domain.DailyState) string {
	return FormatShareText(state.Date, state.Score, state.MaxScore, state.Results)
}

func (s *GameService) guessedStat(ctx context.Context, question domain.Question, playerID string) (int, string, error) {
	lines, err := s.seasons.Season(ctx, question.Season)
	if err != nil {
		return 0, "", err
	}
	for _, line := range lines {
		if line.PlayerID == playerID {
			return line.Stat(question.Stat), line.Name, nil
		}
	}
	// Player on the candidate list but without a stat line that season.
	for _, c := range question.Candidates {
		if c.PlayerID == playerID {
			return 0, c.Name, nil
		}
	}
	return 0, "", nil
}
