package models

import "time"

// Outcome for a single map slot when no matchup history exists.
const OutcomeNoData = "Data Not Available"

// MapResult is the predicted outcome of one map in a series.
type MapResult struct {
	Map    string `json:"map"`
	Mode   string `json:"mode"`
	Winner string `json:"winner"` // team name or OutcomeNoData
}

// SeriesPrediction is the full result of a best-of-five prediction request.
// When the decided maps split evenly the series is reported as tied rather
// than crediting either team.
type SeriesPrediction struct {
	Team1        string      `json:"team1"`
	Team2        string      `json:"team2"`
	Maps         []MapResult `json:"maps"`
	SeriesWinner string      `json:"series_winner,omitempty"`
	SeriesScore  string      `json:"series_score"` // "W-L" from the winner's side
	Tied         bool        `json:"tied"`
	Unavailable  int         `json:"unavailable_maps"`
}

// FeatureImportance is one entry of the ranked importance distribution.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ClassMetrics holds per-class evaluation figures.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ConfusionMatrix counts binary outcomes on the holdout set.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

// EvaluationReport summarizes one training run. Persisted per run so the API
// can serve the latest model's quality figures.
type EvaluationReport struct {
	RunID          string              `json:"run_id"`
	TrainedAt      time.Time           `json:"trained_at"`
	Samples        int                 `json:"samples"`
	TrainSamples   int                 `json:"train_samples"`
	TestSamples    int                 `json:"test_samples"`
	ClassBalance   float64             `json:"class_balance"` // share of label-1 samples
	TrainAccuracy  float64             `json:"train_accuracy"`
	TestAccuracy   float64             `json:"test_accuracy"`
	Class0         ClassMetrics        `json:"class_0"`
	Class1         ClassMetrics        `json:"class_1"`
	Confusion      ConfusionMatrix     `json:"confusion"`
	CrossValAvg    float64             `json:"cross_val_avg_accuracy"`
	CrossValFolds  int                 `json:"cross_val_folds"`
	FeatureRanking []FeatureImportance `json:"feature_ranking"`
}
