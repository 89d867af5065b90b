package forest

import (
	"math"
	"testing"
)

func TestSplitProportionsAndDeterminism(t *testing.T) {
	x, y := separableSet(100)

	trainX, trainY, testX, testY := Split(x, y, 0.3, 42)

	if len(testX) != 30 || len(trainX) != 70 {
		t.Errorf("split sizes = %d/%d, want 70/30", len(trainX), len(testX))
	}
	if len(trainX) != len(trainY) || len(testX) != len(testY) {
		t.Error("feature/label lengths diverge after split")
	}

	trainX2, _, _, _ := Split(x, y, 0.3, 42)
	for i := range trainX {
		if &trainX[i][0] != &trainX2[i][0] {
			t.Fatal("same seed should produce the identical partition")
		}
	}

	trainX3, _, _, _ := Split(x, y, 0.3, 43)
	same := true
	for i := range trainX {
		if &trainX[i][0] != &trainX3[i][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should shuffle differently")
	}
}

func TestEvaluateKnownConfusion(t *testing.T) {
	x, y := separableSet(60)
	model, err := Train(x, y, Config{Trees: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	acc, class0, class1, cm, err := model.Evaluate(x, y)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	total := cm.TruePositives + cm.TrueNegatives + cm.FalsePositives + cm.FalseNegatives
	if total != 60 {
		t.Errorf("confusion total = %d, want 60", total)
	}
	if class1.Support != 30 || class0.Support != 30 {
		t.Errorf("supports = %d/%d, want 30/30", class0.Support, class1.Support)
	}

	wantAcc := float64(cm.TruePositives+cm.TrueNegatives) / 60
	if math.Abs(acc-wantAcc) > 1e-12 {
		t.Errorf("accuracy %v inconsistent with confusion counts %v", acc, wantAcc)
	}
	for _, m := range []float64{class0.Precision, class0.Recall, class0.F1, class1.Precision, class1.Recall, class1.F1} {
		if m < 0 || m > 1 {
			t.Errorf("metric out of range: %v", m)
		}
	}
}

func TestCrossValidate(t *testing.T) {
	x, y := separableSet(50)

	avg, err := CrossValidate(x, y, 5, Config{Trees: 20, Seed: 42})
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if avg < 0.8 {
		t.Errorf("CV accuracy on separable data = %v, want >= 0.8", avg)
	}

	if _, err := CrossValidate(x, y, 1, Config{}); err == nil {
		t.Error("k=1 should be rejected")
	}
	if _, err := CrossValidate(x[:3], y[:3], 5, Config{}); err == nil {
		t.Error("fewer samples than folds should be rejected")
	}
}
