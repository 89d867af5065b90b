// Package forest implements the bagged decision-tree classifier behind map
// winner predictions: an ensemble of CART trees, each trained on a bootstrap
// sample of the matchup set, with majority vote deciding the label. The
// mixed categorical-code/continuous-diff feature space needs no scaling.
package forest

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// InconsistentFeatureSchemaError reports a prediction request whose vector
// does not match the dimensionality the model was trained on. Silent
// truncation or padding is forbidden.
type InconsistentFeatureSchemaError struct {
	Got  int
	Want int
}

func (e *InconsistentFeatureSchemaError) Error() string {
	return fmt.Sprintf("feature vector has %d dimensions, model trained on %d", e.Got, e.Want)
}

// Config holds the training hyperparameters.
type Config struct {
	Trees    int   // number of trees in the ensemble
	MaxDepth int   // 0 means unlimited
	MinLeaf  int   // minimum samples per leaf
	Seed     int64 // drives bootstrap sampling and split feature selection
}

func (c Config) withDefaults() Config {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.MinLeaf <= 0 {
		c.MinLeaf = 1
	}
	return c
}

// Forest is a trained bagged tree ensemble. Immutable after Train; a retrain
// produces a whole new value.
type Forest struct {
	Trees       []*Node   `json:"trees"`
	NumFeatures int       `json:"num_features"`
	Importance  []float64 `json:"importance"` // normalized, indexed by feature
	Seed        int64     `json:"seed"`
}

// Train fits the ensemble on the labeled examples. Training is deterministic
// for a fixed config: tree i draws its bootstrap sample and split features
// from a generator seeded with Seed+i.
func Train(x [][]float64, y []int, cfg Config) (*Forest, error) {
	cfg = cfg.withDefaults()

	if len(x) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("feature/label length mismatch: %d vs %d", len(x), len(y))
	}
	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, &InconsistentFeatureSchemaError{Got: len(row), Want: numFeatures}
		}
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("label at index %d is %d, want 0 or 1", i, y[i])
		}
	}

	f := &Forest{
		Trees:       make([]*Node, 0, cfg.Trees),
		NumFeatures: numFeatures,
		Seed:        cfg.Seed,
	}

	totalImportance := make([]float64, numFeatures)
	for t := 0; t < cfg.Trees; t++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))

		// Bootstrap sample with replacement, same size as the training set.
		indices := make([]int, len(x))
		for i := range indices {
			indices[i] = rng.Intn(len(x))
		}

		builder := &treeBuilder{
			x:           x,
			y:           y,
			numFeatures: numFeatures,
			maxDepth:    cfg.MaxDepth,
			minLeaf:     cfg.MinLeaf,
			mtry:        defaultMtry(numFeatures),
			rng:         rng,
			importances: make([]float64, numFeatures),
		}
		f.Trees = append(f.Trees, builder.build(indices, 0))

		for i, v := range builder.importances {
			totalImportance[i] += v
		}
	}

	var sum float64
	for _, v := range totalImportance {
		sum += v
	}
	f.Importance = make([]float64, numFeatures)
	if sum > 0 {
		for i, v := range totalImportance {
			f.Importance[i] = v / sum
		}
	}

	return f, nil
}

// Predict returns the majority-vote label for one feature vector. The vector
// dimensionality is validated before any tree is consulted.
func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != f.NumFeatures {
		return 0, &InconsistentFeatureSchemaError{Got: len(features), Want: f.NumFeatures}
	}

	votes := 0
	for _, tree := range f.Trees {
		votes += tree.predict(features)
	}
	if 2*votes > len(f.Trees) {
		return 1, nil
	}
	return 0, nil
}

// RankedImportances returns the feature importance distribution sorted
// descending, using the provided dimension names.
func (f *Forest) RankedImportances(names []string) []models.FeatureImportance {
	ranked := make([]models.FeatureImportance, 0, len(f.Importance))
	for i, imp := range f.Importance {
		name := fmt.Sprintf("feature_%d", i)
		if i < len(names) {
			name = names[i]
		}
		ranked = append(ranked, models.FeatureImportance{Feature: name, Importance: imp})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	return ranked
}
