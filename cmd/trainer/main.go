package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/config"
	"github.com/cdlcentral/predictor-api/internal/logic"
)

// Trainer runs one offline training pass and publishes the resulting
// artifacts to Redis, where the API picks them up on reload.
func main() {
	csvDir := flag.String("csv-dir", "", "Read stat rows from <TEAM>.csv files in this directory instead of ClickHouse")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid REDIS_URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var source logic.StatsSource
	if *csvDir != "" {
		source = logic.NewCSVStatsSource(*csvDir)
	} else {
		if cfg.ClickHouseURL == "" {
			sugar.Fatal("Either --csv-dir or CLICKHOUSE_URL is required")
		}
		chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			sugar.Fatalw("Invalid CLICKHOUSE_URL", "error", err)
		}
		chConn, err := clickhouse.Open(chOpts)
		if err != nil {
			sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
		}
		defer chConn.Close()
		source = logic.NewClickHouseStatsSource(chConn)
	}

	var pg logic.PgPool
	if cfg.PostgresURL != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			sugar.Fatalw("Failed to create Postgres pool", "error", err)
		}
		defer pgPool.Close()
		pg = pgPool
	}

	store := artifacts.NewRedisStore(redisClient)
	trainer := logic.NewTrainingService(source, store, pg, logic.TrainConfig{
		Trees:        cfg.ForestTrees,
		MaxDepth:     cfg.ForestMaxDepth,
		Seed:         cfg.ForestSeed,
		TestFraction: cfg.TestHoldout,
		CVFolds:      cfg.CVFolds,
	}, sugar)

	report, err := trainer.Run(ctx)
	if err != nil {
		sugar.Fatalw("Training failed", "error", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		sugar.Fatalw("Failed to render report", "error", err)
	}
	fmt.Println(string(out))
}
