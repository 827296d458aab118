package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dailydraft-service/internal/domain"
)

// SeasonLoader fetches season stat lines from a backing store (Postgres,
// scraped files, etc).
type SeasonLoader interface {
	LoadSeason(ctx context.Context, year int) ([]domain.PlayerSeason, error)
}

// SeasonRepository caches seasons with TTL to avoid repeated backend hits.
// Seasons are read-mostly and loaded lazily on first access.
type SeasonRepository struct {
	loader SeasonLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedSeason
}

type cachedSeason struct {
	lines     []domain.PlayerSeason
	expiresAt time.Time
}

func NewSeasonRepository(loader SeasonLoader, ttl time.Duration) *SeasonRepository {
	return &SeasonRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedSeason),
	}
}

func (r *SeasonRepository) Season(ctx context.Context, year int) ([]domain.PlayerSeason, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[year]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.lines, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(strconv.Itoa(year), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[year]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.lines, nil
		}
		r.mu.RUnlock()

		lines, err := r.loader.LoadSeason(ctx, year)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[year] = cachedSeason{
			lines:     lines,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.PlayerSeason), nil
}

// StaticSeasonLoader is a simple loader backed by an in-memory map (useful
// for tests/demos).
type StaticSeasonLoader struct {
	seasons map[int][]domain.PlayerSeason
}

func NewStaticSeasonLoader(seasons map[int][]domain.PlayerSeason) *StaticSeasonLoader {
	return &StaticSeasonLoader{seasons: seasons}
}

func (l *StaticSeasonLoader) LoadSeason(_ context.Context, year int) ([]domain.PlayerSeason, error) {
	if lines, ok := l.seasons[year]; ok {
		return lines, nil
	}
	return nil, domain.ErrSeasonUnavailable
}

func (r *SeasonRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
