package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/encoding"
	"github.com/cdlcentral/predictor-api/internal/features"
	"github.com/cdlcentral/predictor-api/internal/forest"
	"github.com/cdlcentral/predictor-api/internal/models"
)

var trainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "cdl_training_duration_seconds",
	Help:    "Duration of full training runs",
	Buckets: prometheus.DefBuckets,
})

// TrainConfig carries the training hyperparameters and evaluation settings.
type TrainConfig struct {
	Trees        int
	MaxDepth     int
	Seed         int64
	TestFraction float64 // holdout share, defaults to 0.3
	CVFolds      int     // defaults to 5
}

func (c TrainConfig) withDefaults() TrainConfig {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.3
	}
	if c.CVFolds < 2 {
		c.CVFolds = 5
	}
	return c
}

type trainingService struct {
	source StatsSource
	store  artifacts.Store
	pg     PgPool
	cfg    TrainConfig
	logger *zap.SugaredLogger
}

// NewTrainingService wires a training pipeline. pg may be nil, in which case
// run reports are not persisted (artifacts still are).
func NewTrainingService(source StatsSource, store artifacts.Store, pg PgPool, cfg TrainConfig, logger *zap.SugaredLogger) TrainingService {
	return &trainingService{
		source: source,
		store:  store,
		pg:     pg,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Run executes one full training pass. Any failure aborts the run before the
// first artifact write, so a broken batch never publishes a partial set.
func (s *trainingService) Run(ctx context.Context) (*models.EvaluationReport, error) {
	start := time.Now()
	defer func() { trainingDuration.Observe(time.Since(start).Seconds()) }()

	stats, err := s.source.LoadStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("stats source returned no rows")
	}

	records := features.Build(stats)
	if len(records) == 0 {
		return nil, fmt.Errorf("no matchup records could be built from %d stat rows", len(stats))
	}
	s.logger.Infow("Built matchup records", "statRows", len(stats), "matchups", len(records))

	// Encoders are fit over the fixed vocabularies, not the observed data,
	// so codes stay stable as coverage grows.
	teamEnc := encoding.Fit("team", models.KnownTeams)
	mapEnc := encoding.Fit("map", models.KnownMaps)
	modeEnc := encoding.Fit("mode", models.KnownModes)

	x, y, err := encodeTrainingSet(records, teamEnc, mapEnc, modeEnc)
	if err != nil {
		return nil, fmt.Errorf("encode training set: %w", err)
	}

	trainX, trainY, testX, testY := forest.Split(x, y, s.cfg.TestFraction, s.cfg.Seed)

	forestCfg := forest.Config{Trees: s.cfg.Trees, MaxDepth: s.cfg.MaxDepth, Seed: s.cfg.Seed}
	model, err := forest.Train(trainX, trainY, forestCfg)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	trainAcc, err := model.Accuracy(trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("score training set: %w", err)
	}
	testAcc, class0, class1, confusion, err := model.Evaluate(testX, testY)
	if err != nil {
		return nil, fmt.Errorf("evaluate holdout: %w", err)
	}
	cvAvg, err := forest.CrossValidate(x, y, s.cfg.CVFolds, forestCfg)
	if err != nil {
		return nil, fmt.Errorf("cross validate: %w", err)
	}

	ones := 0
	for _, label := range y {
		ones += label
	}

	report := &models.EvaluationReport{
		RunID:          uuid.NewString(),
		TrainedAt:      time.Now().UTC(),
		Samples:        len(y),
		TrainSamples:   len(trainY),
		TestSamples:    len(testY),
		ClassBalance:   float64(ones) / float64(len(y)),
		TrainAccuracy:  trainAcc,
		TestAccuracy:   testAcc,
		Class0:         class0,
		Class1:         class1,
		Confusion:      confusion,
		CrossValAvg:    cvAvg,
		CrossValFolds:  s.cfg.CVFolds,
		FeatureRanking: model.RankedImportances(models.FeatureNames[:]),
	}

	if err := s.publish(ctx, records, teamEnc, mapEnc, modeEnc, model); err != nil {
		return nil, err
	}

	if err := s.recordRun(ctx, report); err != nil {
		// Artifacts are live at this point; a missing report row is worth a
		// warning, not a failed run.
		s.logger.Warnw("Failed to record training run", "error", err, "runID", report.RunID)
	}

	s.logger.Infow("Training run complete",
		"runID", report.RunID,
		"samples", report.Samples,
		"testAccuracy", report.TestAccuracy,
		"cvAvg", report.CrossValAvg,
		"duration", time.Since(start),
	)
	return report, nil
}

func encodeTrainingSet(records []models.MatchupRecord, teamEnc, mapEnc, modeEnc *encoding.LabelEncoder) ([][]float64, []int, error) {
	x := make([][]float64, 0, len(records))
	y := make([]int, 0, len(records))

	for _, r := range records {
		teamA, err := teamEnc.Encode(r.TeamA)
		if err != nil {
			return nil, nil, err
		}
		teamB, err := teamEnc.Encode(r.TeamB)
		if err != nil {
			return nil, nil, err
		}
		mapCode, err := mapEnc.Encode(r.Map)
		if err != nil {
			return nil, nil, err
		}
		modeCode, err := modeEnc.Encode(r.Mode)
		if err != nil {
			return nil, nil, err
		}

		x = append(x, []float64{
			float64(teamA), float64(teamB), float64(mapCode), float64(modeCode),
			r.KDDiff, r.AvgPointDiffDiff, r.NTKPctDiff, r.NTDPctDiff,
		})
		y = append(y, r.Label())
	}

	return x, y, nil
}

func (s *trainingService) publish(ctx context.Context, records []models.MatchupRecord, teamEnc, mapEnc, modeEnc *encoding.LabelEncoder, model *forest.Forest) error {
	// Model last: a crash mid-publish leaves the previous model paired with
	// its own encoders rather than a new model with stale ones.
	writes := []struct {
		name  string
		value any
	}{
		{artifacts.NameMatchups, features.NewStore(records)},
		{artifacts.NameTeamEncoder, teamEnc},
		{artifacts.NameMapEncoder, mapEnc},
		{artifacts.NameModeEncoder, modeEnc},
		{artifacts.NameModel, model},
	}
	for _, w := range writes {
		if err := s.store.Put(ctx, w.name, w.value); err != nil {
			return fmt.Errorf("publish %s: %w", w.name, err)
		}
	}
	return nil
}

func (s *trainingService) recordRun(ctx context.Context, report *models.EvaluationReport) error {
	if s.pg == nil {
		return nil
	}

	blob, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO training_runs (id, trained_at, test_accuracy, report)
		VALUES ($1, $2, $3, $4)
	`, report.RunID, report.TrainedAt, report.TestAccuracy, blob)
	return err
}
