// Package features builds and serves the pairwise matchup records the
// classifier is trained and queried on. One directional record exists per
// unordered team pair per (map, mode); the opposite direction is derived by
// negating the diffs, never stored.
package features

import (
	"sort"

	"github.com/cdlcentral/predictor-api/internal/models"
)

type mapMode struct {
	Map  string
	Mode string
}

type statKey struct {
	Team string
	Map  string
	Mode string
}

// Build turns raw per-team stat rows into differential matchup records.
//
// For every (map, mode) combination present in the input, each pair of teams
// with a stat row for that exact combination yields one record whose diffs
// are stat(teamA) - stat(teamB). Teams missing data for a combination are
// excluded from all of its matchups; there is no imputation. Eligible teams
// are enumerated in lexicographic order, which pins the stored direction of
// each pair so rebuilt artifacts are byte-for-byte reproducible.
func Build(stats []models.TeamMapModeStat) []models.MatchupRecord {
	// First stat row per (team, map, mode) wins.
	byKey := make(map[statKey]models.TeamMapModeStat, len(stats))
	var combos []mapMode
	seenCombo := make(map[mapMode]struct{})
	teamsByCombo := make(map[mapMode][]string)

	for _, row := range stats {
		mm := mapMode{Map: row.Map, Mode: row.Mode}
		if _, ok := seenCombo[mm]; !ok {
			seenCombo[mm] = struct{}{}
			combos = append(combos, mm)
		}

		key := statKey{Team: row.Team, Map: row.Map, Mode: row.Mode}
		if _, ok := byKey[key]; ok {
			continue
		}
		byKey[key] = row
		teamsByCombo[mm] = append(teamsByCombo[mm], row.Team)
	}

	var records []models.MatchupRecord
	for _, mm := range combos {
		teams := teamsByCombo[mm]
		if len(teams) < 2 {
			continue
		}
		sort.Strings(teams)

		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				a, okA := byKey[statKey{Team: teams[i], Map: mm.Map, Mode: mm.Mode}]
				b, okB := byKey[statKey{Team: teams[j], Map: mm.Map, Mode: mm.Mode}]
				if !okA || !okB {
					continue
				}
				records = append(records, models.MatchupRecord{
					TeamA:            a.Team,
					TeamB:            b.Team,
					Map:              mm.Map,
					Mode:             mm.Mode,
					WinPctDiff:       a.WinPct - b.WinPct,
					KDDiff:           a.KD - b.KD,
					AvgPointDiffDiff: a.AvgPointDiff - b.AvgPointDiff,
					NTKPctDiff:       a.NTKPct - b.NTKPct,
					NTDPctDiff:       a.NTDPct - b.NTDPct,
				})
			}
		}
	}

	return records
}
