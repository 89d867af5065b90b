package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// Dev tool: posts a batch of synthetic stat rows to a running API so the
// ingest path and a subsequent training run can be exercised end to end.
func main() {
	apiURL := flag.String("api-url", "http://localhost:8080/api/v1/ingest/stats", "Ingest endpoint")
	token := flag.String("token", "seed-secret-123", "Ingest token (must match INGEST_TOKEN)")
	seed := flag.Int64("seed", 42, "Seed for the synthetic stat values")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	var rows []models.TeamMapModeStat
	for _, team := range models.KnownTeams {
		if team == "Team A" || team == "Team B" {
			continue
		}
		for _, mapName := range models.KnownMaps {
			for _, mode := range models.KnownModes {
				rows = append(rows, models.TeamMapModeStat{
					Team:         team,
					Map:          mapName,
					Mode:         mode,
					WinPct:       30 + rng.Float64()*40,
					KD:           0.85 + rng.Float64()*0.3,
					AvgPointDiff: -30 + rng.Float64()*60,
					NTKPct:       40 + rng.Float64()*20,
					NTDPct:       40 + rng.Float64()*20,
				})
			}
		}
	}

	payload, err := json.Marshal(models.IngestStatsRequest{Rows: rows})
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}

	req, err := http.NewRequest("POST", *apiURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ingest-Token", *token)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Expected 202 Accepted for %d rows", len(rows))
	}
	fmt.Printf("Seeded %d stat rows\n", len(rows))
}
