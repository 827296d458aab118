package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/config"
	pgstore "dailydraft-service/internal/infra/postgres"
	"dailydraft-service/internal/importer"
)

// NewImportCmd scrapes a season's stats and loads them into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var season int
	var source string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a season's player stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, season, source)
		},
	}
	cmd.Flags().IntVar(&season, "season", app.MaxSeason, "season year to import")
	cmd.Flags().StringVar(&source, "source", "", "stats source base URL (overrides config)")
	return cmd
}

func runImport(ctx context.Context, configPath string, season int, source string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if source == "" {
		source = cfg.Importer.BaseURL
	}
	if source == "" {
		return fmt.Errorf("importer base url not configured")
	}
	if season < app.MinSeason || season > app.MaxSeason {
		return fmt.Errorf("season %d outside supported range %d-%d", season, app.MinSeason, app.MaxSeason)
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	scanner := importer.NewScanner(nil, source)
	lines, err := scanner.Scan(ctx, season)
	if err != nil {
		return err
	}

	if err := pgstore.NewSeasonWriter(pool).UpsertSeason(ctx, lines); err != nil {
		return err
	}
	log.Printf("imported %d stat lines for season %d", len(lines), season)
	return nil
}
