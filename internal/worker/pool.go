// Package worker implements the buffered worker pool pattern for async stat
// ingestion. This decouples HTTP request handling from database writes,
// providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// Prometheus metrics
var (
	rowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_stat_rows_ingested_total",
		Help: "Total number of stat rows accepted into the ingest queue",
	})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_stat_rows_processed_total",
		Help: "Total number of stat rows written to ClickHouse",
	})

	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_stat_rows_failed_total",
		Help: "Total number of stat rows that failed to write",
	})

	rowsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdl_stat_rows_load_shed_total",
		Help: "Total number of stat rows dropped because the queue was full",
	})

	ingestQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cdl_ingest_queue_depth",
		Help: "Current depth of the ingest worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cdl_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Row        *models.TeamMapModeStat
	ReceivedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool manages a pool of workers writing stat rows to ClickHouse in batches
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing pending batches
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a row to the queue. Returns false when the queue is full or
// the pool is shutting down; callers report the drop to the exporter.
func (p *Pool) Enqueue(row *models.TeamMapModeStat) bool {
	job := Job{Row: row, ReceivedAt: time.Now()}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue row (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		rowsIngested.Inc()
		return true
	default:
		rowsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.insertBatch(batch); err != nil {
			p.logger.Errorw("Batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			rowsFailed.Add(float64(len(batch)))
		} else {
			rowsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			// Stop closes the queue after canceling; drain it so nothing
			// accepted before shutdown is lost
			for job := range p.jobQueue {
				batch = append(batch, job)
				if len(batch) >= p.config.BatchSize {
					flush()
				}
			}
			flush()
			return
		}
	}
}

// insertBatch writes a batch of stat rows to ClickHouse
func (p *Pool) insertBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO cdl_stats.team_map_mode_stats (
			team, map, mode,
			win_pct, kd, avg_point_diff, ntk_pct, ntd_pct,
			received_at
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		row := job.Row
		if err := chBatch.Append(
			row.Team,
			row.Map,
			row.Mode,
			row.WinPct,
			row.KD,
			row.AvgPointDiff,
			row.NTKPct,
			row.NTDPct,
			job.ReceivedAt,
		); err != nil {
			p.logger.Warnw("Failed to append row to batch",
				"error", err, "team", row.Team, "map", row.Map, "mode", row.Mode)
			continue
		}
	}

	return chBatch.Send()
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ingestQueueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
