package features

import "github.com/cdlcentral/predictor-api/internal/models"

type pairKey struct {
	TeamA string
	TeamB string
	Map   string
	Mode  string
}

// Store indexes matchup records for orientation-aware lookup. It is built
// once and read-only afterward, safe for concurrent readers.
type Store struct {
	// Records keeps insertion order for serialization.
	Records []models.MatchupRecord `json:"records"`

	index map[pairKey]int
}

// NewStore indexes a flat matchup collection.
func NewStore(records []models.MatchupRecord) *Store {
	s := &Store{Records: records}
	s.buildIndex()
	return s
}

func (s *Store) buildIndex() {
	s.index = make(map[pairKey]int, len(s.Records))
	for i, r := range s.Records {
		key := pairKey{TeamA: r.TeamA, TeamB: r.TeamB, Map: r.Map, Mode: r.Mode}
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = i
	}
}

// Lookup returns the inference diffs for (team1, team2) on a map and mode,
// always oriented as team1 minus team2. Both storage directions are tried;
// a record stored the other way round is negated before return. A missing
// matchup is a normal outcome, reported via ok=false.
//
// WinPctDiff never leaves the store through Lookup: it is the training
// target, not an inference feature.
func (s *Store) Lookup(team1, team2, mapName, mode string) (models.DirectedFeatures, bool) {
	if s.index == nil {
		s.buildIndex()
	}

	if i, ok := s.index[pairKey{TeamA: team1, TeamB: team2, Map: mapName, Mode: mode}]; ok {
		r := s.Records[i]
		return models.DirectedFeatures{
			KDDiff:           r.KDDiff,
			AvgPointDiffDiff: r.AvgPointDiffDiff,
			NTKPctDiff:       r.NTKPctDiff,
			NTDPctDiff:       r.NTDPctDiff,
		}, true
	}

	if i, ok := s.index[pairKey{TeamA: team2, TeamB: team1, Map: mapName, Mode: mode}]; ok {
		r := s.Records[i]
		return models.DirectedFeatures{
			KDDiff:           r.KDDiff,
			AvgPointDiffDiff: r.AvgPointDiffDiff,
			NTKPctDiff:       r.NTKPctDiff,
			NTDPctDiff:       r.NTDPctDiff,
		}.Negate(), true
	}

	return models.DirectedFeatures{}, false
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.Records)
}
