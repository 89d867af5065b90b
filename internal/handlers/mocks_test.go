package handlers

import (
	"context"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// MockSeriesService
type MockSeriesService struct {
	PredictSeriesFunc func(ctx context.Context, req *models.SeriesRequest) (*models.SeriesPrediction, error)
	LookupMatchupFunc func(ctx context.Context, team1, team2, mapName, mode string) (*models.DirectedFeatures, error)
	ImportancesFunc   func(ctx context.Context) ([]models.FeatureImportance, error)
	ReloadFunc        func(ctx context.Context) error
	ReadyFunc         func() bool
}

func (m *MockSeriesService) PredictSeries(ctx context.Context, req *models.SeriesRequest) (*models.SeriesPrediction, error) {
	if m.PredictSeriesFunc != nil {
		return m.PredictSeriesFunc(ctx, req)
	}
	return &models.SeriesPrediction{Team1: req.Team1, Team2: req.Team2}, nil
}

func (m *MockSeriesService) LookupMatchup(ctx context.Context, team1, team2, mapName, mode string) (*models.DirectedFeatures, error) {
	if m.LookupMatchupFunc != nil {
		return m.LookupMatchupFunc(ctx, team1, team2, mapName, mode)
	}
	return nil, nil
}

func (m *MockSeriesService) Importances(ctx context.Context) ([]models.FeatureImportance, error) {
	if m.ImportancesFunc != nil {
		return m.ImportancesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSeriesService) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

func (m *MockSeriesService) Ready() bool {
	if m.ReadyFunc != nil {
		return m.ReadyFunc()
	}
	return true
}

// MockEvaluationService
type MockEvaluationService struct {
	LatestReportFunc func(ctx context.Context) (*models.EvaluationReport, error)
}

func (m *MockEvaluationService) LatestReport(ctx context.Context) (*models.EvaluationReport, error) {
	if m.LatestReportFunc != nil {
		return m.LatestReportFunc(ctx)
	}
	return &models.EvaluationReport{}, nil
}

// MockIngestQueue
type MockIngestQueue struct {
	EnqueueFunc func(row *models.TeamMapModeStat) bool
	Depth       int
}

func (m *MockIngestQueue) Enqueue(row *models.TeamMapModeStat) bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(row)
	}
	return true
}

func (m *MockIngestQueue) QueueDepth() int {
	return m.Depth
}
