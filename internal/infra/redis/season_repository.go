package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"dailydraft-service/internal/domain"
)

// SeasonLoader fetches season stat lines from a backing store (e.g. Postgres).
type SeasonLoader interface {
	LoadSeason(ctx context.Context, year int) ([]domain.PlayerSeason, error)
}

// SeasonRepository caches whole seasons in Redis as JSON snapshots and falls
// back to a loader on cache miss. Snapshot key: season:{year}.
type SeasonRepository struct {
	client *redis.Client
	loader SeasonLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewSeasonRepository(client *redis.Client, loader SeasonLoader, ttl time.Duration) *SeasonRepository {
	return &SeasonRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *SeasonRepository) Season(ctx context.Context, year int) ([]domain.PlayerSeason, error) {
	key := r.seasonKey(year)

	if lines, ok := r.fromCache(ctx, key); ok {
		return lines, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(year), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if lines, ok := r.fromCache(ctx, key); ok {
			return lines, nil
		}

		lines, err := r.loader.LoadSeason(ctx, year)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(lines)
		if err != nil {
			return nil, err
		}
		// best-effort cache fill
		_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()

		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.PlayerSeason), nil
}

func (r *SeasonRepository) fromCache(ctx context.Context, key string) ([]domain.PlayerSeason, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var lines []domain.PlayerSeason
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false
	}
	return lines, true
}

func (r *SeasonRepository) seasonKey(year int) string {
	return "season:" + strconv.Itoa(year)
}

func (r *SeasonRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
