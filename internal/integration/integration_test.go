package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/domain"
	pgstore "dailydraft-service/internal/infra/postgres"
	pgmigrations "dailydraft-service/internal/infra/postgres/migrations"
	infraredis "dailydraft-service/internal/infra/redis"
)

func TestDailyRoundEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedSeasons(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgstore.NewSeasonLoader(pool)
	seasons := infraredis.NewSeasonRepository(redisClient, loader, 5*time.Minute)
	states := infraredis.NewStateStore(redisClient, time.Hour)

	now := func() time.Time { return time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) }
	builder := app.NewRoundBuilderWithClock(seasons, now)
	service := app.NewGameServiceWithClock(builder, seasons, states, now)

	round, err := service.StartDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("start daily: %v", err)
	}
	if len(round.Questions) != app.QuestionsPerRound {
		t.Fatalf("expected %d questions, got %d", app.QuestionsPerRound, len(round.Questions))
	}

	for i, q := range round.Questions {
		if q.DataIssue {
			t.Fatalf("question %d degraded despite fully seeded seasons: %+v", i, q)
		}
		result, err := service.SubmitGuess(ctx, round, i, q.Leader.PlayerID)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if result.Points != app.MaxPointsPerQuestion {
			t.Fatalf("leader guess %d scored %d", i, result.Points)
		}
	}

	state, err := service.CompleteDaily(ctx, "u1", round)
	if err != nil {
		t.Fatalf("complete daily: %v", err)
	}
	if state.Score != app.MaxRoundScore {
		t.Fatalf("expected %d, got %d", app.MaxRoundScore, state.Score)
	}
	if !strings.HasPrefix(service.ShareText(state), "Daily Draft NFL Trivia 2026-01-05\nScore: 50,000/50,000 (100%)") {
		t.Fatalf("share text mismatch:\n%s", service.ShareText(state))
	}

	if _, err := service.CompleteDaily(ctx, "u1", round); !errors.Is(err, domain.ErrDailyCompleted) {
		t.Fatalf("expected ErrDailyCompleted on re-completion, got %v", err)
	}
	if _, err := service.StartDaily(ctx, "u1"); !errors.Is(err, domain.ErrDailyCompleted) {
		t.Fatalf("expected ErrDailyCompleted on restart, got %v", err)
	}

	// Practice stays available after the daily is used up.
	again, err := service.StartPractice(ctx)
	if err != nil {
		t.Fatalf("practice after completion: %v", err)
	}
	if len(again.Questions) != app.QuestionsPerRound {
		t.Fatalf("practice round incomplete: %d questions", len(again.Questions))
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "draft", "POSTGRES_PASSWORD": "draftpass", "POSTGRES_DB": "draftdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://draft:draftpass@%s:%s/draftdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

// seedSeasons migrates the schema and inserts a roster for every supported
// season so round assembly always resolves.
func seedSeasons(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	const insert = `INSERT INTO player_seasons
		(player_id, season, name, position, offense_snaps,
		 passing_yards, passing_tds, completions, attempts,
		 receptions, receiving_yards, receiving_tds, targets,
		 rushing_yards, rushing_tds, carries)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for year := app.MinSeason; year <= app.MaxSeason; year++ {
		rows := [][]any{
			{fmt.Sprintf("qb-%d", year), year, "Sam Archer", "QB", 1000, 4200, 31, 390, 570, 0, 0, 0, 0, 120, 2, 40},
			{fmt.Sprintf("wr-%d", year), year, "Deon Whitfield", "WR", 900, 0, 0, 0, 0, 112, 1540, 11, 163, 0, 0, 0},
			{fmt.Sprintf("rb-%d", year), year, "Elijah Frost", "RB", 800, 0, 0, 0, 0, 48, 390, 2, 60, 1630, 14, 322},
			{fmt.Sprintf("te-%d", year), year, "Grant Okafor", "TE", 750, 0, 0, 0, 0, 86, 1010, 9, 121, 0, 0, 0},
		}
		for _, row := range rows {
			if _, err := db.ExecContext(ctx, insert, row...); err != nil {
				t.Fatalf("seed season %d: %v", year, err)
			}
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
