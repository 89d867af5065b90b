// Package artifacts persists the trained model, the encoders, and the
// matchup collection as independent named blobs. Each artifact stands alone;
// there is no combined transactional format.
package artifacts

import (
	"context"
	"fmt"
)

// Canonical artifact names. The model and encoders are only meaningful as a
// set produced by the same training run.
const (
	NameMatchups    = "matchups"
	NameTeamEncoder = "team_encoder"
	NameMapEncoder  = "map_encoder"
	NameModeEncoder = "mode_encoder"
	NameModel       = "model"
)

// ArtifactLoadError reports an artifact that is missing or cannot be
// deserialized. Fatal for prediction serving; there is no fallback to an
// untrained state.
type ArtifactLoadError struct {
	Name string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load artifact %q: %v", e.Name, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// Store reads and writes named artifacts. Values are JSON-encoded; Get
// decodes into the provided destination.
type Store interface {
	Put(ctx context.Context, name string, value any) error
	Get(ctx context.Context, name string, dest any) error
}
