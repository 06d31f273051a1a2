package cli

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"countries-trivia/internal/config"
	"countries-trivia/internal/domain"
	"countries-trivia/internal/game"
	"countries-trivia/internal/infra/memory"
	"countries-trivia/internal/infra/postgres"
	redisinfra "countries-trivia/internal/infra/redis"
	"countries-trivia/internal/questions"
	"countries-trivia/internal/telegram"
)

// NewRunCmd builds the CLI subcommand that executes one competition turn.
func NewRunCmd(configPath *string) *cobra.Command {
	var secondTurn bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one competition turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompetition(cmd.Context(), *configPath, secondTurn)
		},
	}
	cmd.Flags().BoolVar(&secondTurn, "second-turn", false, "re-offer sessions to players who skipped the first turn")
	return cmd
}

func runCompetition(ctx context.Context, configPath string, secondTurn bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var store game.LeaderboardStore = memory.NewLeaderboardStore()
	if pool != nil {
		pgStore := postgres.NewLeaderboardStore(pool)
		// Released on every exit path, success or store error.
		defer pgStore.Close()
		store = pgStore
	} else {
		log.Printf("no postgres configured, scores will not survive this run")
	}

	var loader memory.BankLoader = questions.NewFileLoader(cfg.Game.BankPath)
	if pool != nil && cfg.Game.BankPath == "" {
		loader = postgres.NewBankLoader(pool)
	}

	bankTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)
	var bank game.BankRepository
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bank = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bank = memory.NewBankRepository(loader, bankTTL)
	}

	messenger := telegram.New(cfg.Telegram.APIBase)
	waiter := game.NewWaiter(messenger, config.Duration(cfg.Game.PollInterval, 500*time.Millisecond))
	runner := game.NewRunner(messenger, waiter,
		config.Duration(cfg.Game.InitTimeLimit, 60*time.Second),
		config.Duration(cfg.Game.ResponseTimeLimit, 20*time.Second))
	orchestrator := game.NewOrchestrator(cfg.Roster(), runner, bank, store, messenger,
		cfg.Game.Questions, cfg.Game.PoolSize, nil)

	run, err := orchestrator.Run(ctx, secondTurn)
	if err != nil {
		return err
	}

	completed, abandoned := 0, 0
	for _, outcome := range run.Outcomes {
		if outcome.Status == domain.Completed {
			completed++
		} else {
			abandoned++
		}
	}
	log.Printf("turn finished: %d completed, %d abandoned", completed, abandoned)
	return nil
}
