package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"dailydraft-service/internal/domain"
)

// SeasonWriter upserts imported stat lines into player_seasons.
type SeasonWriter struct {
	pool *pgxpool.Pool
}

func NewSeasonWriter(pool *pgxpool.Pool) *SeasonWriter {
	return &SeasonWriter{pool: pool}
}

func (w *SeasonWriter) UpsertSeason(ctx context.Context, lines []domain.PlayerSeason) error {
	if len(lines) == 0 {
		return nil
	}

	builder := statementBuilder.
		Insert("player_seasons").
		Columns(seasonColumns...).
		Suffix(`ON CONFLICT (player_id, season) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			offense_snaps = EXCLUDED.offense_snaps,
			passing_yards = EXCLUDED.passing_yards,
			passing_tds = EXCLUDED.passing_tds,
			completions = EXCLUDED.completions,
			attempts = EXCLUDED.attempts,
			receptions = EXCLUDED.receptions,
			receiving_yards = EXCLUDED.receiving_yards,
			receiving_tds = EXCLUDED.receiving_tds,
			targets = EXCLUDED.targets,
			rushing_yards = EXCLUDED.rushing_yards,
			rushing_tds = EXCLUDED.rushing_tds,
			carries = EXCLUDED.carries`)

	for _, line := range lines {
		builder = builder.Values(
			line.PlayerID, line.Name, line.Position, line.Season, line.OffenseSnaps,
			line.PassingYards, line.PassingTDs, line.Completions, line.Attempts,
			line.Receptions, line.ReceivingYards, line.ReceivingTDs, line.Targets,
			line.RushingYards, line.RushingTDs, line.Carries,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := w.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season lines: %w", err)
	}
	return nil
}
