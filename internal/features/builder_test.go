package features

import (
	"testing"

	"github.com/cdlcentral/predictor-api/internal/models"
)

func stat(team, mapName, mode string, winPct, kd, apd, ntk, ntd float64) models.TeamMapModeStat {
	return models.TeamMapModeStat{
		Team: team, Map: mapName, Mode: mode,
		WinPct: winPct, KD: kd, AvgPointDiff: apd, NTKPct: ntk, NTDPct: ntd,
	}
}

func TestBuildCompleteness(t *testing.T) {
	stats := []models.TeamMapModeStat{
		stat("TX", "Karachi", "Hardpoint", 60, 1.1, 12, 55, 45),
		stat("ATL", "Karachi", "Hardpoint", 70, 1.2, 20, 60, 40),
		stat("MIN", "Karachi", "Hardpoint", 40, 0.9, -5, 48, 52),
	}

	records := Build(stats)

	// Three teams -> C(3,2) = 3 directional records.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Exactly one direction per unordered pair.
	seen := make(map[[2]string]int)
	for _, r := range records {
		pair := [2]string{r.TeamA, r.TeamB}
		if r.TeamB < r.TeamA {
			pair = [2]string{r.TeamB, r.TeamA}
		}
		seen[pair]++
	}
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %v has %d records, want 1", pair, n)
		}
	}
}

func TestBuildDirectionPinnedLexicographically(t *testing.T) {
	// Input order deliberately reversed; stored direction must still be
	// alphabetical so rebuilt artifacts are reproducible.
	stats := []models.TeamMapModeStat{
		stat("TX", "Rio", "SND", 55, 1.0, 3, 50, 50),
		stat("ATL", "Rio", "SND", 65, 1.3, 9, 58, 42),
	}

	records := Build(stats)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.TeamA != "ATL" || r.TeamB != "TX" {
		t.Fatalf("direction = (%s, %s), want (ATL, TX)", r.TeamA, r.TeamB)
	}
	if r.WinPctDiff != 10 {
		t.Errorf("WinPctDiff = %v, want 10 (ATL minus TX)", r.WinPctDiff)
	}
	if r.KDDiff != 0.3 && r.KDDiff != 1.3-1.0 {
		t.Errorf("KDDiff = %v, want 0.3", r.KDDiff)
	}
}

func TestBuildExcludesTeamsMissingCombination(t *testing.T) {
	stats := []models.TeamMapModeStat{
		stat("TX", "Karachi", "Hardpoint", 60, 1.1, 12, 55, 45),
		stat("ATL", "Karachi", "Hardpoint", 70, 1.2, 20, 60, 40),
		// MIN has Karachi data only for Control, not Hardpoint.
		stat("MIN", "Karachi", "Control", 40, 0.9, -5, 48, 52),
	}

	records := Build(stats)

	for _, r := range records {
		if r.Mode == "Hardpoint" && (r.TeamA == "MIN" || r.TeamB == "MIN") {
			t.Errorf("MIN appears in a Hardpoint matchup despite having no Hardpoint row: %+v", r)
		}
	}
}

func TestBuildFewerThanTwoTeams(t *testing.T) {
	stats := []models.TeamMapModeStat{
		stat("TX", "Terminal", "SND", 50, 1.0, 0, 50, 50),
	}

	if records := Build(stats); len(records) != 0 {
		t.Errorf("single-team combination produced %d records, want 0", len(records))
	}
}

func TestBuildFirstRowWins(t *testing.T) {
	stats := []models.TeamMapModeStat{
		stat("ATL", "Rio", "Control", 70, 1.2, 20, 60, 40),
		stat("ATL", "Rio", "Control", 10, 0.1, -20, 10, 90), // duplicate, ignored
		stat("TX", "Rio", "Control", 50, 1.0, 0, 50, 50),
	}

	records := Build(stats)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].WinPctDiff != 20 {
		t.Errorf("WinPctDiff = %v, want 20 (first ATL row minus TX)", records[0].WinPctDiff)
	}
}

func TestLabelBoundary(t *testing.T) {
	tests := []struct {
		name       string
		winPctDiff float64
		want       int
	}{
		{"PositiveDiff", 0.1, 1},
		{"ZeroDiffLabelsTeamB", 0, 0},
		{"NegativeDiff", -0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.MatchupRecord{WinPctDiff: tt.winPctDiff}
			if got := r.Label(); got != tt.want {
				t.Errorf("Label() = %d, want %d", got, tt.want)
			}
		})
	}
}
