package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/cdlcentral/predictor-api/internal/models"
)

type clickhouseStatsSource struct {
	ch driver.Conn
}

// NewClickHouseStatsSource reads stat rows from the cdl_stats.team_map_mode_stats
// table. Rows are ordered by (map, mode, team) so feature building sees a
// deterministic sequence and rebuilt artifacts are reproducible.
func NewClickHouseStatsSource(ch driver.Conn) StatsSource {
	return &clickhouseStatsSource{ch: ch}
}

func (s *clickhouseStatsSource) LoadStats(ctx context.Context) ([]models.TeamMapModeStat, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT
			team, map, mode,
			avg(win_pct), avg(kd), avg(avg_point_diff), avg(ntk_pct), avg(ntd_pct)
		FROM cdl_stats.team_map_mode_stats
		GROUP BY team, map, mode
		ORDER BY map, mode, team
	`)
	if err != nil {
		return nil, fmt.Errorf("stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []models.TeamMapModeStat
	for rows.Next() {
		var row models.TeamMapModeStat
		if err := rows.Scan(
			&row.Team, &row.Map, &row.Mode,
			&row.WinPct, &row.KD, &row.AvgPointDiff, &row.NTKPct, &row.NTDPct,
		); err != nil {
			return nil, fmt.Errorf("stats scan failed: %w", err)
		}
		stats = append(stats, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats rows failed: %w", err)
	}

	return stats, nil
}
