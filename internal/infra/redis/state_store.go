package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/domain"
)

// StateStore keeps per-session daily state in Redis so completion survives
// process restarts within a day. Key: daily:state:{sessionID}. The retention
// TTL only needs to outlive the UTC day; rollover itself is handled by
// app.Reconcile, not by key expiry.
type StateStore struct {
	client    *goredis.Client
	retention time.Duration
}

func NewStateStore(client *goredis.Client, retention time.Duration) *StateStore {
	return &StateStore{client: client, retention: retention}
}

func (s *StateStore) Get(ctx context.Context, sessionID, date string) (domain.DailyState, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.DailyState{}, err
	}
	return app.Reconcile(state, date), nil
}

func (s *StateStore) MarkCompleted(ctx context.Context, sessionID, date string, score, maxScore int, results []domain.GuessResult) (domain.DailyState, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.DailyState{}, err
	}

	state, err = app.MarkCompleted(app.Reconcile(state, date), score, maxScore, results)
	if err != nil {
		return domain.DailyState{}, err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return domain.DailyState{}, err
	}
	if err := s.client.Set(ctx, s.stateKey(sessionID), data, s.retention).Err(); err != nil {
		return domain.DailyState{}, err
	}
	return state, nil
}

func (s *StateStore) load(ctx context.Context, sessionID string) (domain.DailyState, error) {
	data, err := s.client.Get(ctx, s.stateKey(sessionID)).Bytes()
	if err == goredis.Nil {
		return domain.DailyState{}, nil
	}
	if err != nil {
		return domain.DailyState{}, err
	}
	var state domain.DailyState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt payloads reset to NotStarted instead of blocking play.
		return domain.DailyState{}, nil
	}
	return state, nil
}

func (s *StateStore) stateKey(sessionID string) string {
	return "daily:state:" + sessionID
}
