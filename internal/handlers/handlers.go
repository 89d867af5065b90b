package handlers

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/logic"
	"github.com/cdlcentral/predictor-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the stat-row ingestion worker pool
type IngestQueue interface {
	Enqueue(row *models.TeamMapModeStat) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool IngestQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Ingest auth
	IngestToken string
	// Services
	Series     logic.SeriesService
	Evaluation logic.EvaluationService
}

type Handler struct {
	pool        IngestQueue
	pg          *pgxpool.Pool
	ch          driver.Conn
	redis       *redis.Client
	logger      *zap.SugaredLogger
	validator   *validator.Validate
	ingestToken string
	series      logic.SeriesService
	evaluation  logic.EvaluationService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:        cfg.WorkerPool,
		pg:          cfg.Postgres,
		ch:          cfg.ClickHouse,
		redis:       cfg.Redis,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		ingestToken: cfg.IngestToken,
		series:      cfg.Series,
		evaluation:  cfg.Evaluation,
	}
}

// Routes builds the full router for the API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predictions/series", h.PredictSeries)
		r.Get("/matchups", h.GetMatchup)
		r.Get("/model/importance", h.GetFeatureImportance)
		r.Get("/model/evaluation", h.GetEvaluation)
		r.Post("/admin/reload", h.ReloadModel)

		r.Group(func(r chi.Router) {
			r.Use(h.IngestAuthMiddleware)
			r.Post("/ingest/stats", h.IngestStats)
			r.Post("/system/install", h.InstallDatabase)
		})
	})

	return r
}
