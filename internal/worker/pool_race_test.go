package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/models"
)

func TestPool_RaceCondition(t *testing.T) {
	ch := &MockClickHouseConn{}
	pool := NewPool(PoolConfig{
		WorkerCount:   2,
		QueueSize:     1000,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		ClickHouse:    ch,
		Logger:        zap.NewNop(),
	})

	pool.Start(context.Background())

	// Hammer Enqueue from many goroutines while workers batch and flush
	wg := sync.WaitGroup{}
	producers := 10
	rowsPerProducer := 100

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(producer int) {
			defer wg.Done()
			for j := 0; j < rowsPerProducer; j++ {
				pool.Enqueue(&models.TeamMapModeStat{
					Team:   fmt.Sprintf("team-%d", producer),
					Map:    "Karachi",
					Mode:   "Hardpoint",
					WinPct: float64(j),
				})
				if j%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	wg.Wait()
	pool.Stop()

	// Load shedding may drop rows under pressure, but nothing accepted
	// may be lost or double written
	written := len(ch.AppendedRows())
	if written == 0 {
		t.Error("No rows reached ClickHouse")
	}
	if written > producers*rowsPerProducer {
		t.Errorf("Wrote %d rows, more than the %d enqueued", written, producers*rowsPerProducer)
	}
}
