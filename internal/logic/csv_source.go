package logic

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// csvStatsSource reads one CSV export per team from a directory. The file
// name (without extension) is the team identifier; columns carry the per
// map/mode stats. This mirrors the upstream spreadsheet layout of one sheet
// per team with the team column appended on load.
type csvStatsSource struct {
	dir string
}

// NewCSVStatsSource creates a source over a directory of <TEAM>.csv files.
func NewCSVStatsSource(dir string) StatsSource {
	return &csvStatsSource{dir: dir}
}

func (s *csvStatsSource) LoadStats(ctx context.Context) ([]models.TeamMapModeStat, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read stats dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	var stats []models.TeamMapModeStat
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		team := strings.TrimSuffix(name, filepath.Ext(name))
		rows, err := s.readTeamFile(filepath.Join(s.dir, name), team)
		if err != nil {
			return nil, fmt.Errorf("team file %s: %w", name, err)
		}
		stats = append(stats, rows...)
	}

	return stats, nil
}

// Column headers as they appear in the exported sheets.
var csvColumns = map[string]string{
	"Map":            "map",
	"Mode":           "mode",
	"Win %":          "win_pct",
	"K/D":            "kd",
	"Avg Point Diff": "avg_point_diff",
	"NTK %":          "ntk_pct",
	"NTD %":          "ntd_pct",
}

func (s *csvStatsSource) readTeamFile(path, team string) ([]models.TeamMapModeStat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if field, ok := csvColumns[strings.TrimSpace(h)]; ok {
			cols[field] = i
		}
	}
	for _, field := range []string{"map", "mode", "win_pct", "kd", "avg_point_diff", "ntk_pct", "ntd_pct"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("missing column for %s", field)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	stats := make([]models.TeamMapModeStat, 0, len(records))
	for i, rec := range records {
		row := models.TeamMapModeStat{
			Team: team,
			Map:  strings.TrimSpace(rec[cols["map"]]),
			Mode: strings.TrimSpace(rec[cols["mode"]]),
		}
		var parseErr error
		for field, dest := range map[string]*float64{
			"win_pct":        &row.WinPct,
			"kd":             &row.KD,
			"avg_point_diff": &row.AvgPointDiff,
			"ntk_pct":        &row.NTKPct,
			"ntd_pct":        &row.NTDPct,
		} {
			v, err := parseStatValue(rec[cols[field]])
			if err != nil {
				parseErr = fmt.Errorf("row %d column %s: %w", i+2, field, err)
				break
			}
			*dest = v
		}
		if parseErr != nil {
			return nil, parseErr
		}
		stats = append(stats, row)
	}

	return stats, nil
}

// parseStatValue accepts plain floats and percent-suffixed values ("54.2%").
func parseStatValue(raw string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if trimmed == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(trimmed, 64)
}
