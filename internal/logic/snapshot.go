package logic

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/encoding"
	"github.com/cdlcentral/predictor-api/internal/features"
	"github.com/cdlcentral/predictor-api/internal/forest"
)

// Snapshot bundles the model, the three encoders, and the matchup store from
// one training run. It is immutable once loaded; a reload builds a fresh
// Snapshot and swaps it in atomically, so in-flight requests never observe a
// half-replaced artifact set.
type Snapshot struct {
	Model    *forest.Forest
	TeamEnc  *encoding.LabelEncoder
	MapEnc   *encoding.LabelEncoder
	ModeEnc  *encoding.LabelEncoder
	Matchups *features.Store
}

// LoadSnapshot fetches all five artifacts concurrently. Any load failure
// fails the whole snapshot; partially present artifacts are never served.
func LoadSnapshot(ctx context.Context, store artifacts.Store) (*Snapshot, error) {
	snap := &Snapshot{
		Model:    &forest.Forest{},
		TeamEnc:  &encoding.LabelEncoder{},
		MapEnc:   &encoding.LabelEncoder{},
		ModeEnc:  &encoding.LabelEncoder{},
		Matchups: &features.Store{},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return store.Get(ctx, artifacts.NameModel, snap.Model) })
	g.Go(func() error { return store.Get(ctx, artifacts.NameTeamEncoder, snap.TeamEnc) })
	g.Go(func() error { return store.Get(ctx, artifacts.NameMapEncoder, snap.MapEnc) })
	g.Go(func() error { return store.Get(ctx, artifacts.NameModeEncoder, snap.ModeEnc) })
	g.Go(func() error { return store.Get(ctx, artifacts.NameMatchups, snap.Matchups) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
