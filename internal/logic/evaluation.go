package logic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cdlcentral/predictor-api/internal/models"
)

type evaluationService struct {
	pg PgPool
}

// NewEvaluationService serves persisted training-run reports from Postgres.
func NewEvaluationService(pg PgPool) EvaluationService {
	return &evaluationService{pg: pg}
}

// LatestReport returns the most recent training run's evaluation report.
func (s *evaluationService) LatestReport(ctx context.Context) (*models.EvaluationReport, error) {
	var blob []byte
	err := s.pg.QueryRow(ctx, `
		SELECT report FROM training_runs
		ORDER BY trained_at DESC
		LIMIT 1
	`).Scan(&blob)
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	var report models.EvaluationReport
	if err := json.Unmarshal(blob, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
