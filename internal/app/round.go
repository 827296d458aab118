package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailydraft-service/internal/domain"
)

const (
	// MinSeason and MaxSeason bound the seasons questions can draw from.
	MinSeason = 1999
	MaxSeason = 2023

	// maxSampleAttempts bounds re-sampling when a (season, stat) pick has
	// no usable leader or candidate pool.
	maxSampleAttempts = 12
)

// roundSlots is the fixed slot order of every round.
var roundSlots = [QuestionsPerRound]domain.Slot{
	domain.SlotQB, domain.SlotWR1, domain.SlotWR2, domain.SlotRB, domain.SlotTE,
}

// statPools lists which categories can be asked per position.
var statPools = map[domain.Position][]domain.StatCategory{
	domain.QB: {domain.PassingYards, domain.PassingTDs, domain.Completions, domain.Attempts},
	domain.WR: {domain.Receptions, domain.ReceivingYards, domain.ReceivingTDs, domain.Targets},
	domain.RB: {domain.RushingYards, domain.RushingTDs, domain.Carries, domain.Receptions},
	domain.TE: {domain.Receptions, domain.ReceivingYards, domain.ReceivingTDs, domain.Targets},
}

// SeasonRepository resolves season stat lines (cached infra behind it).
type SeasonRepository interface {
	Season(ctx context.Context, year int) ([]domain.PlayerSeason, error)
}

// RoundBuilder assembles rounds by sampling (season, stat) pairs per slot
// and resolving each category leader against the season repository.
type RoundBuilder struct {
	seasons SeasonRepository
	now     func() time.Time
}

func NewRoundBuilder(seasons SeasonRepository) *RoundBuilder {
	return &RoundBuilder{seasons: seasons, now: time.Now}
}

// NewRoundBuilderWithClock is test-only for pinning the season cutoff.
func NewRoundBuilderWithClock(seasons SeasonRepository, now func() time.Time) *RoundBuilder {
	return &RoundBuilder{seasons: seasons, now: now}
}

// BuildDaily assembles the deterministic round for a UTC date. Two calls
// with the same date and the same underlying data produce identical
// questions, which is what makes the daily challenge shared worldwide.
func (b *RoundBuilder) BuildDaily(ctx context.Context, date string) (*domain.Round, error) {
	seed, err := SeedForDate(date)
	if err != nil {
		return nil, err
	}
	round, err := b.build(ctx, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	round.Mode = domain.ModeDaily
	round.Date = date
	return round, nil
}

// BuildPractice assembles a freshly randomized round.
func (b *RoundBuilder) BuildPractice(ctx context.Context) (*domain.Round, error) {
	round, err := b.build(ctx, rand.New(rand.NewSource(b.now().UnixNano())))
	if err != nil {
		return nil, err
	}
	round.Mode = domain.ModePractice
	return round, nil
}

// effectiveMaxSeason caps sampling at the last completed season; before
// September the current season is still in progress.
func (b *RoundBuilder) effectiveMaxSeason() int {
	now := b.now().UTC()
	max := now.Year()
	if now.Month() < time.September {
		max = now.Year() - 1
	}
	if max > MaxSeason {
		max = MaxSeason
	}
	if max < MinSeason {
		max = MinSeason
	}
	return max
}

type wrPick struct {
	season int
	stat   domain.StatCategory
}

func (b *RoundBuilder) build(ctx context.Context, rng *rand.Rand) (*domain.Round, error) {
	round := &domain.Round{
		ID:        uuid.NewString(),
		Questions: make([]domain.Question, 0, QuestionsPerRound),
		Results:   make([]domain.GuessResult, 0, QuestionsPerRound),
	}
	usedWR := make(map[wrPick]struct{})

	for _, slot := range roundSlots {
		question, err := b.buildQuestion(ctx, rng, slot, usedWR)
		if err != nil {
			return nil, err
		}
		round.Questions = append(round.Questions, question)
	}
	return round, nil
}

// buildQuestion samples (season, stat) pairs until one resolves. WR1 and WR2
// must not repeat a pair. Retryable data problems burn an attempt; anything
// else aborts round assembly. An exhausted slot degrades to a zero-point
// data-issue question so the round can still be played through.
func (b *RoundBuilder) buildQuestion(ctx context.Context, rng *rand.Rand, slot domain.Slot, usedWR map[wrPick]struct{}) (domain.Question, error) {
	pos := slot.Position()
	pool := statPools[pos]
	maxSeason := b.effectiveMaxSeason()

	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		season := MinSeason + rng.Intn(maxSeason-MinSeason+1)
		stat := pool[rng.Intn(len(pool))]
		if pos == domain.WR {
			if _, used := usedWR[wrPick{season, stat}]; used {
				continue
			}
		}

		question, err := b.resolveQuestion(ctx, slot, season, stat)
		if err != nil {
			if errors.Is(err, domain.ErrSeasonUnavailable) ||
				errors.Is(err, domain.ErrZeroLeader) ||
				errors.Is(err, domain.ErrNoEligiblePlayers) {
				continue
			}
			return domain.Question{}, err
		}

		if pos == domain.WR {
			usedWR[wrPick{season, stat}] = struct{}{}
		}
		return question, nil
	}

	return domain.Question{
		Slot:      slot,
		Prompt:    fmt.Sprintf("Data unavailable for %s.", slot),
		DataIssue: true,
	}, nil
}

func (b *RoundBuilder) resolveQuestion(ctx context.Context, slot domain.Slot, season int, stat domain.StatCategory) (domain.Question, error) {
	lines, err := b.seasons.Season(ctx, season)
	if err != nil {
		return domain.Question{}, err
	}

	pos := slot.Position()
	var leader domain.Leader
	for _, line := range lines {
		if line.Position != pos {
			continue
		}
		if v := line.Stat(stat); v > leader.Value {
			leader = domain.Leader{PlayerID: line.PlayerID, Name: line.Name, Value: v}
		}
	}
	if leader.Value == 0 {
		return domain.Question{}, domain.ErrZeroLeader
	}

	candidates := EligiblePlayers(lines, pos)
	if len(candidates) == 0 {
		return domain.Question{}, domain.ErrNoEligiblePlayers
	}

	return domain.Question{
		Slot:       slot,
		Season:     season,
		Stat:       stat,
		Prompt:     fmt.Sprintf("Who had the most %s in %d for %ss?", StatLabel(stat), season, pos),
		Leader:     leader,
		Candidates: candidates,
	}, nil
}

// EligiblePlayers filters a season's lines down to the candidate pool for a
// position: players with positive usage in the position's primary category
// (QB attempts, RB carries, WR/TE targets) or any offensive snaps. Sorted by
// name for stable display.
func EligiblePlayers(lines []domain.PlayerSeason, pos domain.Position) []domain.Candidate {
	usage := func(line domain.PlayerSeason) int {
		switch pos {
		case domain.QB:
			return line.Attempts
		case domain.RB:
			return line.Carries
		default:
			return line.Targets
		}
	}

	seen := make(map[string]struct{})
	var out []domain.Candidate
	for _, line := range lines {
		if line.Position != pos {
			continue
		}
		if usage(line) <= 0 && line.OffenseSnaps <= 0 {
			continue
		}
		if _, dup := seen[line.PlayerID]; dup {
			continue
		}
		seen[line.PlayerID] = struct{}{}
		out = append(out, domain.Candidate{PlayerID: line.PlayerID, Name: line.Name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StatLabel turns a category into prompt wording ("passing_yards" ->
// "passing yards").
func StatLabel(cat domain.StatCategory) string {
	return strings.ReplaceAll(string(cat), "_", " ")
}
