package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/config"
	"dailydraft-service/internal/domain"
	"dailydraft-service/internal/infra/memory"
	pgstore "dailydraft-service/internal/infra/postgres"
	redisinfra "dailydraft-service/internal/infra/redis"
	transport "dailydraft-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	stateRetention := config.TTLDuration(cfg.Redis.TTL, 48*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.SeasonLoader = memory.NewStaticSeasonLoader(sampleSeasons())
	if pool != nil {
		loader = pgstore.NewSeasonLoader(pool)
	}

	seasonTTL := config.TTLDuration(cfg.Seasons.TTL, time.Hour)
	var seasons app.SeasonRepository
	if redisClient != nil {
		seasons = redisinfra.NewSeasonRepository(redisClient, loader, seasonTTL)
	} else {
		seasons = memory.NewSeasonRepository(loader, seasonTTL)
	}

	var states app.DailyStateStore
	if redisClient != nil {
		states = redisinfra.NewStateStore(redisClient, stateRetention)
	} else {
		states = memory.NewStateStore()
	}

	builder := app.NewRoundBuilder(seasons)
	service := app.NewGameService(builder, seasons, states)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting dailydraft service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleSeasons synthesizes a small roster for every supported season so the
// service can run without Postgres; swap in the imported data for production.
func sampleSeasons() map[int][]domain.PlayerSeason {
	seasons := make(map[int][]domain.PlayerSeason)
	for year := app.MinSeason; year <= app.MaxSeason; year++ {
		n := year - app.MinSeason
		seasons[year] = []domain.PlayerSeason{
			{
				PlayerID: demoID("qb1", year), Name: "Sam Archer", Position: domain.QB, Season: year,
				OffenseSnaps: 1000, PassingYards: 4200 + 13*n, PassingTDs: 30 + n%8, Completions: 380 + 2*n, Attempts: 560 + 3*n,
			},
			{
				PlayerID: demoID("qb2", year), Name: "Troy Mallory", Position: domain.QB, Season: year,
				OffenseSnaps: 950, PassingYards: 3900 - 11*n, PassingTDs: 24 + n%5, Completions: 350 - n, Attempts: 530 - 2*n,
			},
			{
				PlayerID: demoID("wr1", year), Name: "Deon Whitfield", Position: domain.WR, Season: year,
				OffenseSnaps: 900, Receptions: 110 + n%9, ReceivingYards: 1500 + 17*n, ReceivingTDs: 11 + n%4, Targets: 160 + n,
			},
			{
				PlayerID: demoID("wr2", year), Name: "Marcus Bell", Position: domain.WR, Season: year,
				OffenseSnaps: 850, Receptions: 95 - n%7, ReceivingYards: 1280 - 9*n, ReceivingTDs: 8 + n%3, Targets: 140 - n,
			},
			{
				PlayerID: demoID("rb1", year), Name: "Elijah Frost", Position: domain.RB, Season: year,
				OffenseSnaps: 800, RushingYards: 1600 + 12*n, RushingTDs: 14 + n%6, Carries: 320 + 2*n, Receptions: 45 + n%10,
			},
			{
				PlayerID: demoID("rb2", year), Name: "Owen Tate", Position: domain.RB, Season: year,
				OffenseSnaps: 700, RushingYards: 1150 - 8*n, RushingTDs: 9 + n%4, Carries: 260 - n, Receptions: 60 - n%12,
			},
			{
				PlayerID: demoID("te1", year), Name: "Grant Okafor", Position: domain.TE, Season: year,
				OffenseSnaps: 750, Receptions: 85 + n%6, ReceivingYards: 1000 + 7*n, ReceivingTDs: 9 + n%3, Targets: 120 + n,
			},
			{
				PlayerID: demoID("te2", year), Name: "Cole Brennan", Position: domain.TE, Season: year,
				OffenseSnaps: 650, Receptions: 70 - n%5, ReceivingYards: 820 - 5*n, ReceivingTDs: 6 + n%4, Targets: 100 - n,
			},
		}
	}
	return seasons
}

func demoID(stub string, year int) string {
	return fmt.Sprintf("demo-%s-%d", stub, year)
}
