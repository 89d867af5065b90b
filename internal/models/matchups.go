package models

// Mode identifiers as they appear in the source data.
type Mode string

const (
	ModeHardpoint Mode = "Hardpoint"
	ModeControl   Mode = "Control"
	ModeSND       Mode = "SND"
)

// Known vocabularies. The encoders are fit over these fixed lists; any name
// outside them is rejected at encode time rather than coerced.
var (
	// KnownTeams includes the two schema placeholders used by historical
	// data exports. They are not real franchises and never appear in
	// matchup records.
	KnownTeams = []string{
		"Team A", "Team B",
		"TX", "ATL", "MIN", "NY", "LAG", "CAR",
		"TOR", "VEG", "SEA", "LAT", "MIA", "BOS",
	}

	KnownMaps = []string{
		"6 Star", "Highrise", "Karachi", "Rio", "Invasion",
		"Terminal", "Vista", "Skidrow", "Sub Base",
	}

	KnownModes = []string{
		string(ModeHardpoint), string(ModeControl), string(ModeSND),
	}
)

// TeamMapModeStat is one row of raw per-team performance data, scoped to a
// single (map, mode) combination. Rows are immutable once loaded.
type TeamMapModeStat struct {
	Team         string  `json:"team" validate:"required"`
	Map          string  `json:"map" validate:"required"`
	Mode         string  `json:"mode" validate:"required"`
	WinPct       float64 `json:"win_pct"`
	KD           float64 `json:"kd"`
	AvgPointDiff float64 `json:"avg_point_diff"`
	NTKPct       float64 `json:"ntk_pct"`
	NTDPct       float64 `json:"ntd_pct"`
}

// MatchupRecord holds the differential features for an ordered team pair on
// one (map, mode). Every diff is stat(TeamA) - stat(TeamB). Only one
// direction per unordered pair is stored; the reverse is derived by negation.
type MatchupRecord struct {
	TeamA            string  `json:"team_a"`
	TeamB            string  `json:"team_b"`
	Map              string  `json:"map"`
	Mode             string  `json:"mode"`
	WinPctDiff       float64 `json:"win_pct_diff"`
	KDDiff           float64 `json:"kd_diff"`
	AvgPointDiffDiff float64 `json:"avg_point_diff_diff"`
	NTKPctDiff       float64 `json:"ntk_pct_diff"`
	NTDPctDiff       float64 `json:"ntd_pct_diff"`
}

// Label derives the training target: 1 if TeamA holds a strictly positive
// win-rate edge, otherwise 0. A dead-even WinPctDiff labels as a TeamB win.
func (r *MatchupRecord) Label() int {
	if r.WinPctDiff > 0 {
		return 1
	}
	return 0
}

// DirectedFeatures are the four inference-time diffs oriented so every value
// reads as team1 minus team2, regardless of which direction was stored.
// WinPctDiff is deliberately absent: it is the training target and must not
// leak into the feature vector.
type DirectedFeatures struct {
	KDDiff           float64 `json:"kd_diff"`
	AvgPointDiffDiff float64 `json:"avg_point_diff_diff"`
	NTKPctDiff       float64 `json:"ntk_pct_diff"`
	NTDPctDiff       float64 `json:"ntd_pct_diff"`
}

// Negate flips the orientation of every diff in place-free fashion.
func (f DirectedFeatures) Negate() DirectedFeatures {
	return DirectedFeatures{
		KDDiff:           -f.KDDiff,
		AvgPointDiffDiff: -f.AvgPointDiffDiff,
		NTKPctDiff:       -f.NTKPctDiff,
		NTDPctDiff:       -f.NTDPctDiff,
	}
}

// FeatureDim is the dimensionality of the classifier input vector:
// [team1, team2, map, mode codes, kd, avg point diff, ntk, ntd diffs].
const FeatureDim = 8

// FeatureNames indexes the classifier input dimensions for importance
// reporting. Order must match the vector assembled at inference time.
var FeatureNames = [FeatureDim]string{
	"team1_encoded",
	"team2_encoded",
	"map_encoded",
	"mode_encoded",
	"kd_diff",
	"avg_point_diff_diff",
	"ntk_pct_diff",
	"ntd_pct_diff",
}
