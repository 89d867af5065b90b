package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/config"
	"github.com/cdlcentral/predictor-api/internal/handlers"
	"github.com/cdlcentral/predictor-api/internal/logic"
	"github.com/cdlcentral/predictor-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis holds the artifact snapshot and is mandatory
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid REDIS_URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("Redis unreachable", "error", err)
	}

	// Postgres backs the training-run registry; without it the evaluation
	// endpoint returns 404s
	var pgPool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pgPool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			sugar.Fatalw("Failed to create Postgres pool", "error", err)
		}
		defer pgPool.Close()
	} else {
		sugar.Warn("POSTGRES_URL not set, evaluation reports disabled")
	}

	// ClickHouse backs stat ingestion
	var chConn driver.Conn
	if cfg.ClickHouseURL != "" {
		chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			sugar.Fatalw("Invalid CLICKHOUSE_URL", "error", err)
		}
		chConn, err = clickhouse.Open(chOpts)
		if err != nil {
			sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
		}
		defer chConn.Close()
	} else {
		sugar.Warn("CLICKHOUSE_URL not set, stat ingestion disabled")
	}

	var pool *worker.Pool
	if chConn != nil {
		pool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.WorkerCount,
			QueueSize:     cfg.QueueSize,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
			ClickHouse:    chConn,
			Logger:        logger,
		})
		pool.Start(ctx)
		defer pool.Stop()
	}

	store := artifacts.NewRedisStore(redisClient)
	series := logic.NewSeriesService(store, sugar)

	if err := series.Reload(ctx); err != nil {
		if cfg.RequireModel {
			sugar.Fatalw("No artifact snapshot available", "error", err)
		}
		sugar.Warnw("Starting without an artifact snapshot, run the trainer to publish one", "error", err)
	}

	var evaluation logic.EvaluationService
	if pgPool != nil {
		evaluation = logic.NewEvaluationService(pgPool)
	}

	handlerCfg := handlers.Config{
		Postgres:    pgPool,
		ClickHouse:  chConn,
		Redis:       redisClient,
		Logger:      logger,
		IngestToken: cfg.IngestToken,
		Series:      series,
		Evaluation:  evaluation,
	}
	if pool != nil {
		handlerCfg.WorkerPool = pool
	}
	h := handlers.New(handlerCfg)

	router := h.Routes()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Ingest-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      corsHandler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	sugar.Info("Server stopped")
}
