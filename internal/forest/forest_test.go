package forest

import (
	"encoding/json"
	"errors"
	"testing"
)

// separableSet builds a dataset where the label is fully determined by the
// sign of dimension 4, mimicking the kd_diff slot of the real vector.
func separableSet(n int) ([][]float64, []int) {
	var x [][]float64
	var y []int
	for i := 0; i < n; i++ {
		sign := 1.0
		label := 1
		if i%2 == 1 {
			sign = -1.0
			label = 0
		}
		row := []float64{
			float64(i % 12), float64((i + 3) % 12), float64(i % 9), float64(i % 3),
			sign * (0.2 + float64(i%5)*0.1),
			sign * (5 + float64(i%7)),
			sign * (2 + float64(i%4)),
			sign * (1 + float64(i%3)),
		}
		x = append(x, row)
		y = append(y, label)
	}
	return x, y
}

func TestTrainAndPredictSeparable(t *testing.T) {
	x, y := separableSet(60)

	model, err := Train(x, y, Config{Trees: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	acc, err := model.Accuracy(x, y)
	if err != nil {
		t.Fatalf("Accuracy: %v", err)
	}
	if acc < 0.95 {
		t.Errorf("training accuracy on separable data = %v, want >= 0.95", acc)
	}

	// Unseen points well clear of the boundary.
	win := []float64{2, 5, 3, 1, 0.8, 12, 4, 2}
	lose := []float64{2, 5, 3, 1, -0.8, -12, -4, -2}

	if pred, err := model.Predict(win); err != nil || pred != 1 {
		t.Errorf("Predict(win) = %d, %v, want 1", pred, err)
	}
	if pred, err := model.Predict(lose); err != nil || pred != 0 {
		t.Errorf("Predict(lose) = %d, %v, want 0", pred, err)
	}
}

func TestTrainDeterministic(t *testing.T) {
	x, y := separableSet(40)

	a, err := Train(x, y, Config{Trees: 25, Seed: 7})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	b, err := Train(x, y, Config{Trees: 25, Seed: 7})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	for i, row := range x {
		pa, _ := a.Predict(row)
		pb, _ := b.Predict(row)
		if pa != pb {
			t.Fatalf("prediction %d differs across identically seeded trainings: %d vs %d", i, pa, pb)
		}
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	x, y := separableSet(20)
	model, err := Train(x, y, Config{Trees: 10, Seed: 1})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	_, err = model.Predict([]float64{1, 2, 3})
	var schemaErr *InconsistentFeatureSchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Predict short vector = %v, want *InconsistentFeatureSchemaError", err)
	}
	if schemaErr.Got != 3 || schemaErr.Want != 8 {
		t.Errorf("error fields = %+v", schemaErr)
	}
}

func TestTrainRejectsBadInput(t *testing.T) {
	if _, err := Train(nil, nil, Config{}); err == nil {
		t.Error("Train with no samples should fail")
	}
	if _, err := Train([][]float64{{1, 2}}, []int{0, 1}, Config{}); err == nil {
		t.Error("Train with mismatched lengths should fail")
	}
	if _, err := Train([][]float64{{1, 2}, {1}}, []int{0, 1}, Config{}); err == nil {
		t.Error("Train with ragged rows should fail")
	}
	if _, err := Train([][]float64{{1, 2}}, []int{3}, Config{}); err == nil {
		t.Error("Train with non-binary label should fail")
	}
}

func TestImportancesNormalizedAndRanked(t *testing.T) {
	x, y := separableSet(60)
	model, err := Train(x, y, Config{Trees: 40, Seed: 3})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	var sum float64
	for _, v := range model.Importance {
		if v < 0 {
			t.Errorf("negative importance %v", v)
		}
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("importances sum to %v, want 1", sum)
	}

	names := []string{"t1", "t2", "map", "mode", "kd", "apd", "ntk", "ntd"}
	ranked := model.RankedImportances(names)
	if len(ranked) != 8 {
		t.Fatalf("ranked length = %d, want 8", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Importance > ranked[i-1].Importance {
			t.Errorf("importances not sorted descending at %d", i)
		}
	}
	// All the signal lives in the sign-correlated continuous dims.
	top := ranked[0].Feature
	if top != "kd" && top != "apd" && top != "ntk" && top != "ntd" {
		t.Errorf("top feature = %q, expected one of the continuous diffs", top)
	}
}

func TestJSONRoundTripPredictions(t *testing.T) {
	x, y := separableSet(40)
	model, err := Train(x, y, Config{Trees: 20, Seed: 9})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	blob, err := json.Marshal(model)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Forest
	if err := json.Unmarshal(blob, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for i, row := range x {
		orig, _ := model.Predict(row)
		got, err := loaded.Predict(row)
		if err != nil {
			t.Fatalf("loaded Predict: %v", err)
		}
		if got != orig {
			t.Fatalf("prediction %d drifted after serialization: %d vs %d", i, got, orig)
		}
	}
}
