package logic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// StatsSource provides the raw per-team map/mode stat rows used for feature
// building. Implementations: ClickHouse table, CSV export directory.
type StatsSource interface {
	LoadStats(ctx context.Context) ([]models.TeamMapModeStat, error)
}

// TrainingService runs one full offline training pass: build features, fit
// encoders, train and evaluate the classifier, publish artifacts.
type TrainingService interface {
	Run(ctx context.Context) (*models.EvaluationReport, error)
}

// SeriesService serves best-of-five predictions from the currently loaded
// artifact snapshot.
type SeriesService interface {
	PredictSeries(ctx context.Context, req *models.SeriesRequest) (*models.SeriesPrediction, error)
	LookupMatchup(ctx context.Context, team1, team2, mapName, mode string) (*models.DirectedFeatures, error)
	Importances(ctx context.Context) ([]models.FeatureImportance, error)
	Reload(ctx context.Context) error
	Ready() bool
}

// EvaluationService serves persisted training-run reports.
type EvaluationService interface {
	LatestReport(ctx context.Context) (*models.EvaluationReport, error)
}
