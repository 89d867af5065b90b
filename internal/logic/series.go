package logic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/models"
)

// ModeSchedule is the fixed best-of-five mode rotation. Positional; callers
// choose maps only.
var ModeSchedule = [5]string{
	string(models.ModeHardpoint),
	string(models.ModeSND),
	string(models.ModeControl),
	string(models.ModeHardpoint),
	string(models.ModeSND),
}

// ErrModelNotLoaded is returned while no artifact snapshot has been loaded.
var ErrModelNotLoaded = errors.New("model artifacts not loaded")

var (
	seriesPredicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_series_predictions_total",
		Help: "Total number of series predictions served",
	})

	mapSlotsNoData = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_map_slots_no_data_total",
		Help: "Total number of map slots answered with Data Not Available",
	})

	snapshotReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_snapshot_reloads_total",
		Help: "Total number of successful artifact snapshot reloads",
	})
)

type seriesService struct {
	store  artifacts.Store
	snap   atomic.Pointer[Snapshot]
	logger *zap.SugaredLogger
}

// NewSeriesService creates the series predictor. The snapshot starts empty;
// call Reload to load artifacts before serving.
func NewSeriesService(store artifacts.Store, logger *zap.SugaredLogger) SeriesService {
	return &seriesService{store: store, logger: logger}
}

// Reload loads a fresh artifact snapshot and swaps it in atomically. The
// previous snapshot keeps serving until the new one is fully loaded.
func (s *seriesService) Reload(ctx context.Context) error {
	snap, err := LoadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	snapshotReloads.Inc()
	s.logger.Infow("Artifact snapshot loaded",
		"matchups", snap.Matchups.Len(),
		"trees", len(snap.Model.Trees),
	)
	return nil
}

// Ready reports whether a snapshot is loaded.
func (s *seriesService) Ready() bool {
	return s.snap.Load() != nil
}

// PredictSeries predicts all five maps and aggregates the series outcome.
// Missing matchup history for a slot is a soft miss recorded as Data Not
// Available; unknown team or map names abort the whole request.
func (s *seriesService) PredictSeries(ctx context.Context, req *models.SeriesRequest) (*models.SeriesPrediction, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrModelNotLoaded
	}

	team1Code, err := snap.TeamEnc.Encode(req.Team1)
	if err != nil {
		return nil, err
	}
	team2Code, err := snap.TeamEnc.Encode(req.Team2)
	if err != nil {
		return nil, err
	}

	pred := &models.SeriesPrediction{
		Team1: req.Team1,
		Team2: req.Team2,
		Maps:  make([]models.MapResult, 0, len(req.Maps)),
	}

	var wins1, wins2 int
	for slot, mapName := range req.Maps {
		mode := ModeSchedule[slot]

		mapCode, err := snap.MapEnc.Encode(mapName)
		if err != nil {
			return nil, err
		}
		modeCode, err := snap.ModeEnc.Encode(mode)
		if err != nil {
			return nil, err
		}

		diffs, ok := snap.Matchups.Lookup(req.Team1, req.Team2, mapName, mode)
		if !ok {
			mapSlotsNoData.Inc()
			pred.Unavailable++
			pred.Maps = append(pred.Maps, models.MapResult{
				Map: mapName, Mode: mode, Winner: models.OutcomeNoData,
			})
			continue
		}

		vector := []float64{
			float64(team1Code), float64(team2Code),
			float64(mapCode), float64(modeCode),
			diffs.KDDiff, diffs.AvgPointDiffDiff, diffs.NTKPctDiff, diffs.NTDPctDiff,
		}
		label, err := snap.Model.Predict(vector)
		if err != nil {
			return nil, fmt.Errorf("predict map %s (%s): %w", mapName, mode, err)
		}

		winner := req.Team2
		if label == 1 {
			winner = req.Team1
			wins1++
		} else {
			wins2++
		}
		pred.Maps = append(pred.Maps, models.MapResult{Map: mapName, Mode: mode, Winner: winner})
	}

	// An even split of decided maps is a reported tie, never silently
	// credited to either team.
	switch {
	case wins1 > wins2:
		pred.SeriesWinner = req.Team1
		pred.SeriesScore = fmt.Sprintf("%d-%d", wins1, wins2)
	case wins2 > wins1:
		pred.SeriesWinner = req.Team2
		pred.SeriesScore = fmt.Sprintf("%d-%d", wins2, wins1)
	default:
		pred.Tied = true
		pred.SeriesScore = fmt.Sprintf("%d-%d", wins1, wins2)
	}

	seriesPredicted.Inc()
	return pred, nil
}

// LookupMatchup exposes the orientation-aware matchup lookup. A nil result
// with nil error means no history exists for the pair.
func (s *seriesService) LookupMatchup(ctx context.Context, team1, team2, mapName, mode string) (*models.DirectedFeatures, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrModelNotLoaded
	}

	for _, team := range []string{team1, team2} {
		if _, err := snap.TeamEnc.Encode(team); err != nil {
			return nil, err
		}
	}
	if _, err := snap.MapEnc.Encode(mapName); err != nil {
		return nil, err
	}
	if _, err := snap.ModeEnc.Encode(mode); err != nil {
		return nil, err
	}

	diffs, ok := snap.Matchups.Lookup(team1, team2, mapName, mode)
	if !ok {
		return nil, nil
	}
	return &diffs, nil
}

// Importances returns the loaded model's ranked feature importances.
func (s *seriesService) Importances(ctx context.Context) ([]models.FeatureImportance, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrModelNotLoaded
	}
	return snap.Model.RankedImportances(models.FeatureNames[:]), nil
}
