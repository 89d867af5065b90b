package artifacts

import (
	"context"
	"errors"
	"testing"

	"github.com/cdlcentral/predictor-api/internal/encoding"
	"github.com/cdlcentral/predictor-api/internal/forest"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	enc := encoding.Fit("team", []string{"TX", "ATL", "MIN"})
	if err := store.Put(ctx, NameTeamEncoder, enc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var loaded encoding.LabelEncoder
	if err := store.Get(ctx, NameTeamEncoder, &loaded); err != nil {
		t.Fatalf("Get: %v", err)
	}

	for _, name := range []string{"TX", "ATL", "MIN"} {
		orig, _ := enc.Encode(name)
		got, err := loaded.Encode(name)
		if err != nil || got != orig {
			t.Errorf("reloaded encoder code for %q = %d, %v, want %d", name, got, err, orig)
		}
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()

	var dest struct{}
	err := store.Get(context.Background(), NameModel, &dest)

	var loadErr *ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Get missing = %v, want *ArtifactLoadError", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing artifact should unwrap to ErrNotFound, got %v", err)
	}
}

func TestModelRoundTripPredictions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	x := [][]float64{
		{0, 1, 2, 0, 0.5, 10, 3, 2},
		{1, 0, 2, 0, -0.5, -10, -3, -2},
		{2, 3, 1, 1, 0.4, 8, 2, 1},
		{3, 2, 1, 1, -0.4, -8, -2, -1},
		{4, 5, 0, 2, 0.6, 12, 4, 3},
		{5, 4, 0, 2, -0.6, -12, -4, -3},
	}
	y := []int{1, 0, 1, 0, 1, 0}

	model, err := forest.Train(x, y, forest.Config{Trees: 15, Seed: 4})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if err := store.Put(ctx, NameModel, model); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var loaded forest.Forest
	if err := store.Get(ctx, NameModel, &loaded); err != nil {
		t.Fatalf("Get: %v", err)
	}

	for i, row := range x {
		orig, _ := model.Predict(row)
		got, err := loaded.Predict(row)
		if err != nil {
			t.Fatalf("loaded Predict: %v", err)
		}
		if got != orig {
			t.Errorf("sample %d: reloaded model predicts %d, original %d", i, got, orig)
		}
	}
}
