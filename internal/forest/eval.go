package forest

import (
	"fmt"
	"math/rand"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// Split partitions the dataset into train and test sets. The shuffle is
// seeded, so the same seed always yields the same partition.
func Split(x [][]float64, y []int, testFraction float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	indices := rand.New(rand.NewSource(seed)).Perm(len(x))

	testSize := int(float64(len(x)) * testFraction)
	for pos, i := range indices {
		if pos < testSize {
			testX = append(testX, x[i])
			testY = append(testY, y[i])
		} else {
			trainX = append(trainX, x[i])
			trainY = append(trainY, y[i])
		}
	}
	return trainX, trainY, testX, testY
}

// Accuracy scores a trained forest against a labeled set.
func (f *Forest) Accuracy(x [][]float64, y []int) (float64, error) {
	if len(x) == 0 {
		return 0, nil
	}
	correct := 0
	for i, row := range x {
		pred, err := f.Predict(row)
		if err != nil {
			return 0, err
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x)), nil
}

// Evaluate computes the holdout metrics: accuracy, per-class precision,
// recall and F1, and the confusion counts. Class 1 means the first-named
// team wins.
func (f *Forest) Evaluate(x [][]float64, y []int) (float64, models.ClassMetrics, models.ClassMetrics, models.ConfusionMatrix, error) {
	var cm models.ConfusionMatrix
	for i, row := range x {
		pred, err := f.Predict(row)
		if err != nil {
			return 0, models.ClassMetrics{}, models.ClassMetrics{}, cm, err
		}
		switch {
		case pred == 1 && y[i] == 1:
			cm.TruePositives++
		case pred == 0 && y[i] == 0:
			cm.TrueNegatives++
		case pred == 1 && y[i] == 0:
			cm.FalsePositives++
		default:
			cm.FalseNegatives++
		}
	}

	total := cm.TruePositives + cm.TrueNegatives + cm.FalsePositives + cm.FalseNegatives
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(cm.TruePositives+cm.TrueNegatives) / float64(total)
	}

	class1 := classMetrics(cm.TruePositives, cm.FalsePositives, cm.FalseNegatives,
		cm.TruePositives+cm.FalseNegatives)
	// For class 0 the roles invert: a true negative is a correct class-0 call.
	class0 := classMetrics(cm.TrueNegatives, cm.FalseNegatives, cm.FalsePositives,
		cm.TrueNegatives+cm.FalsePositives)

	return accuracy, class0, class1, cm, nil
}

func classMetrics(correct, falselyClaimed, missed, support int) models.ClassMetrics {
	m := models.ClassMetrics{Support: support}
	if correct+falselyClaimed > 0 {
		m.Precision = float64(correct) / float64(correct+falselyClaimed)
	}
	if correct+missed > 0 {
		m.Recall = float64(correct) / float64(correct+missed)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// CrossValidate runs k-fold cross validation over the full dataset and
// returns the mean fold accuracy. Folds come from a seeded shuffle.
func CrossValidate(x [][]float64, y []int, k int, cfg Config) (float64, error) {
	if k < 2 {
		return 0, fmt.Errorf("cross validation needs k >= 2, got %d", k)
	}
	if len(x) < k {
		return 0, fmt.Errorf("cross validation needs at least %d samples, got %d", k, len(x))
	}

	indices := rand.New(rand.NewSource(cfg.Seed)).Perm(len(x))

	var sum float64
	for fold := 0; fold < k; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []int
		for pos, i := range indices {
			if pos%k == fold {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		model, err := Train(trainX, trainY, cfg)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}
		acc, err := model.Accuracy(testX, testY)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}
		sum += acc
	}

	return sum / float64(k), nil
}
