package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"

	"dailydraft-service/internal/domain"
)

var statementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var seasonColumns = []string{
	"player_id", "name", "position", "season", "offense_snaps",
	"passing_yards", "passing_tds", "completions", "attempts",
	"receptions", "receiving_yards", "receiving_tds", "targets",
	"rushing_yards", "rushing_tds", "carries",
}

// SeasonLoader loads season stat lines from Postgres.
type SeasonLoader struct {
	pool *pgxpool.Pool
}

func NewSeasonLoader(pool *pgxpool.Pool) *SeasonLoader {
	return &SeasonLoader{pool: pool}
}

func (l *SeasonLoader) LoadSeason(ctx context.Context, year int) ([]domain.PlayerSeason, error) {
	query, args, err := statementBuilder.
		Select(seasonColumns...).
		From("player_seasons").
		Where(sq.Eq{"season": year}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build season query: %w", err)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query season %d: %w", year, err)
	}
	defer rows.Close()

	var lines []domain.PlayerSeason
	for rows.Next() {
		var line domain.PlayerSeason
		if err := rows.Scan(
			&line.PlayerID, &line.Name, &line.Position, &line.Season, &line.OffenseSnaps,
			&line.PassingYards, &line.PassingTDs, &line.Completions, &line.Attempts,
			&line.Receptions, &line.ReceivingYards, &line.ReceivingTDs, &line.Targets,
			&line.RushingYards, &line.RushingTDs, &line.Carries,
		); err != nil {
			return nil, fmt.Errorf("scan season line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("season rows: %w", err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("season %d not imported: %w", year, domain.ErrSeasonUnavailable)
	}
	return lines, nil
}
