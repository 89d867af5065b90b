package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Dev tool: sanity-checks the stat table a trainer run would read from.
func main() {
	dsn := os.Getenv("CLICKHOUSE_URL")
	if dsn == "" {
		dsn = "clickhouse://default@localhost:9000/cdl_stats"
	}

	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()

	var count uint64
	if err := conn.QueryRow(ctx, "SELECT count() FROM cdl_stats.team_map_mode_stats").Scan(&count); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total stat rows: %d\n", count)

	rows, err := conn.Query(ctx, `
		SELECT team, count() AS rows, round(avg(win_pct), 1) AS avg_win
		FROM cdl_stats.team_map_mode_stats
		GROUP BY team
		ORDER BY team
	`)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	fmt.Println("Per team:")
	for rows.Next() {
		var team string
		var n uint64
		var avgWin float64
		if err := rows.Scan(&team, &n, &avgWin); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("- %s: %d rows, avg win %.1f%%\n", team, n, avgWin)
	}
}
