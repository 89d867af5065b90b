package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs. Redis holds the model artifacts and is mandatory;
	// Postgres and ClickHouse are optional and disable the evaluation
	// endpoint and stat ingestion respectively when absent.
	RedisURL      string
	PostgresURL   string
	ClickHouseURL string

	// Ingest auth
	IngestToken string

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Training
	ForestTrees    int
	ForestMaxDepth int
	ForestSeed     int64
	TestHoldout    float64
	CVFolds        int

	// Startup behavior: fail if no artifact snapshot can be loaded
	RequireModel bool
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		PostgresURL:   getEnv("POSTGRES_URL", ""),
		ClickHouseURL: getEnv("CLICKHOUSE_URL", ""),

		IngestToken: getEnv("INGEST_TOKEN", ""),

		WorkerCount:   getEnvInt("WORKER_COUNT", 2),
		QueueSize:     getEnvInt("QUEUE_SIZE", 10000),
		BatchSize:     getEnvInt("BATCH_SIZE", 500),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		ForestTrees:    getEnvInt("FOREST_TREES", 100),
		ForestMaxDepth: getEnvInt("FOREST_MAX_DEPTH", 0),
		ForestSeed:     int64(getEnvInt("FOREST_SEED", 42)),
		TestHoldout:    getEnvFloat("TEST_HOLDOUT_PCT", 0.3),
		CVFolds:        getEnvInt("CV_FOLDS", 5),

		RequireModel: getEnvBool("REQUIRE_MODEL", false),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	if cfg.TestHoldout <= 0 || cfg.TestHoldout >= 1 {
		return nil, fmt.Errorf("TEST_HOLDOUT_PCT must be in (0, 1), got %v", cfg.TestHoldout)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
