// Package worker defines worker contracts for asynchronous report
// processing: normalization, canonical mapping, persistence, and game model
// refresh.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/gpscanon/internal/adapters/mq/queue"
	"github.com/okian/gpscanon/internal/domain/canon"
	"github.com/okian/gpscanon/internal/domain/gamemodel"
	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/internal/domain/normalize"
	"github.com/okian/gpscanon/pkg/logger"
	"github.com/okian/gpscanon/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Canonical keys consulted when deriving player identity from mapped rows.
const (
	playerExternalIDKey = "player_external_id"
	athleteNameKey      = "athlete_name"
)

// Job abstracts what workers read off the queue.
// Using the model.IngestJob type for consistency.
type Job = model.IngestJob

// Normalizer converts a raw parsed table into uniform named-field rows.
type Normalizer interface {
	Normalize(table model.ParsedTable, snapshot model.ProfileSnapshot) normalize.Result
}

// Mapper converts normalized rows into a canonical dataset.
type Mapper interface {
	Map(rows []map[string]any, snapshot model.ProfileSnapshot) model.CanonicalDataset
}

// Persister stores processed reports and the match records derived from
// them.
type Persister interface {
	SaveReport(ctx context.Context, report model.Report) error
	SaveMatchRecords(ctx context.Context, records []model.PlayerMatchRecord) error
}

// Recomputer refreshes one player's game model.
type Recomputer interface {
	Recompute(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs through the ingestion pipeline.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing report jobs.
type InMemoryWorker struct {
	queue      Queue
	normalizer Normalizer
	mapper     Mapper
	persister  Persister
	recomputer Recomputer
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, n Normalizer, m Mapper, p Persister, r Recomputer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		normalizer: n,
		mapper:     m,
		persister:  p,
		recomputer: r,
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the job
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing report", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs a single report through the pipeline.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job must be passed by value for channel semantics
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	normalized := w.normalizer.Normalize(job.Table, job.Snapshot)
	metrics.RecordNormalizeStrategy(string(normalized.Strategy))

	dataset := w.mapper.Map(normalized.Rows, job.Snapshot)
	dataset.Meta.Warnings = mergeWarnings(canon.DefaultWarningCap, normalized.Warnings, dataset.Meta.Warnings)

	report := model.Report{
		ID:        job.ReportID,
		ClubID:    job.ClubID,
		EventID:   job.EventID,
		EventType: job.EventType,
		Snapshot:  job.Snapshot,
		Dataset:   dataset,
		CreatedAt: job.SubmittedAt,
	}

	if err := w.persister.SaveReport(ctx, report); err != nil {
		metrics.RecordReportFailure()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "save_error")
		w.logger.Error(ctx, "report save failed",
			logger.String("reportID", job.ReportID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to save report %s: %w", job.ReportID, err)
	}

	// Only match reports feed game models.
	if job.EventType == model.EventTypeMatch {
		if err := w.refreshGameModels(ctx, job, report); err != nil {
			metrics.RecordReportFailure()
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "gamemodel_error")
			return err
		}
	}

	metrics.RecordReportProcessed()
	return nil
}

// refreshGameModels derives per-player match records from the canonical
// dataset, persists them, and recomputes the affected players' models.
func (w *InMemoryWorker) refreshGameModels(ctx context.Context, job queue.Job, report model.Report) error { //nolint:gocritic // hugeParam: Job passed by value for channel semantics
	records := deriveMatchRecords(job, report.Dataset)
	if len(records) == 0 {
		return nil
	}
	if err := w.persister.SaveMatchRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save match records for report %s: %w", job.ReportID, err)
	}

	for _, rec := range records {
		if _, err := w.recomputer.Recompute(ctx, rec.PlayerID, rec.ClubID); err != nil {
			// A player with too little playing time correctly has no model.
			if errors.Is(err, gamemodel.ErrNoQualifyingMatches) {
				continue
			}
			w.logger.Error(ctx, "game model recompute failed",
				logger.String("playerID", rec.PlayerID),
				logger.String("reportID", job.ReportID),
				logger.Error(err),
			)
		}
	}
	return nil
}

// deriveMatchRecords turns canonical rows into per-player match records.
// Player identity prefers the external ID metric and falls back to the
// athlete name. Rows without either are skipped.
func deriveMatchRecords(job queue.Job, dataset model.CanonicalDataset) []model.PlayerMatchRecord { //nolint:gocritic // hugeParam: Job passed by value for channel semantics
	records := make([]model.PlayerMatchRecord, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		playerID, _ := row[playerExternalIDKey].(string)
		if playerID == "" {
			playerID, _ = row[athleteNameKey].(string)
		}
		if playerID == "" {
			continue
		}
		numbers := make(map[string]float64)
		for key, value := range row {
			if n, ok := value.(float64); ok {
				numbers[key] = n
			}
		}
		if len(numbers) == 0 {
			continue
		}
		records = append(records, model.PlayerMatchRecord{
			MatchID:    job.EventID,
			ReportID:   job.ReportID,
			PlayerID:   playerID,
			ClubID:     job.ClubID,
			RecordedAt: job.SubmittedAt,
			Metrics:    numbers,
		})
	}
	return records
}

// mergeWarnings concatenates warning lists preserving order, dropping
// duplicates, and keeping at most limit entries. The mapper caps its own
// warnings, but the merged dataset list must honor the same bound.
func mergeWarnings(limit int, lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, warning := range list {
			if len(out) >= limit {
				return out
			}
			if _, dup := seen[warning]; dup {
				continue
			}
			seen[warning] = struct{}{}
			out = append(out, warning)
		}
	}
	return out
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	normalizer Normalizer
	mapper     Mapper
	persister  Persister
	recomputer Recomputer

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, n Normalizer, m Mapper, p Persister, r Recomputer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             q,
		normalizer:        n,
		mapper:            m,
		persister:         p,
		recomputer:        r,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			n,
			m,
			p,
			r,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerReportsPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	// Calculate reports per second
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		reportsPerSecond := float64(p.processedCount) / timeDiff
		metrics.UpdateWorkerReportsPerSecond(reportsPerSecond)
	}

	// Reset counters
	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedReport increments the processed report count.
func (p *Pool) RecordProcessedReport() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
