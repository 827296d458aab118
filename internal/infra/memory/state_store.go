package memory

import (
	"context"
	"sync"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/domain"
)

// StateStore is an in-memory implementation of app.DailyStateStore, keyed by
// session ID. State lives for the process lifetime only.
type StateStore struct {
	mu     sync.Mutex
	states map[string]domain.DailyState
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]domain.DailyState)}
}

func (s *StateStore) Get(_ context.Context, sessionID, date string) (domain.DailyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := app.Reconcile(s.states[sessionID], date)
	s.states[sessionID] = state
	return state, nil
}

func (s *StateStore) MarkCompleted(_ context.Context, sessionID, date string, score, maxScore int, results []domain.GuessResult) (domain.DailyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := app.Reconcile(s.states[sessionID], date)
	state, err := app.MarkCompleted(state, score, maxScore, results)
	if err != nil {
		return domain.DailyState{}, err
	}
	s.states[sessionID] = state
	return state, nil
}
