// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/gpscanon/internal/adapters/mq/queue"
	workerpool "github.com/okian/gpscanon/internal/adapters/mq/worker"
	"github.com/okian/gpscanon/internal/adapters/repository"
	"github.com/okian/gpscanon/internal/domain/canon"
	"github.com/okian/gpscanon/internal/domain/gamemodel"
	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/internal/domain/normalize"
	"github.com/okian/gpscanon/internal/domain/registry"
	"github.com/okian/gpscanon/pkg/logger"
	"github.com/okian/gpscanon/pkg/metrics"
)

// Service wires the ingestion pipeline: queue, workers, store, and the
// game model calculator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	jobQueue   jobqueue.Queue
	normalizer *normalize.Normalizer
	mapper     *canon.Mapper
	calculator *gamemodel.Calculator
	registry   *registry.Registry
	workerPool *workerpool.Pool

	// Configuration
	workerCount          int
	queueSize            int
	shardCount           int
	minMatchMinutes      float64
	maxRecentMatches     int
	recomputeConcurrency int
	warningCap           int
	bands                normalize.Bands

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithShardCount sets the number of store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMinMatchMinutes sets the playing time a match needs to feed a game
// model.
func WithMinMatchMinutes(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.minMatchMinutes = minutes
		}
	}
}

// WithMaxRecentMatches caps how many recent matches feed a game model.
func WithMaxRecentMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRecentMatches = n
		}
	}
}

// WithRecomputeConcurrency bounds the team recompute fan-out.
func WithRecomputeConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recomputeConcurrency = n
		}
	}
}

// WithWarningCap bounds per-dataset warning lists.
func WithWarningCap(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.warningCap = limit
		}
	}
}

// WithHeuristicBands overrides the heuristic column classification bands.
func WithHeuristicBands(b normalize.Bands) Option {
	return func(s *Service) {
		s.bands = b
	}
}

// WithRegistry overrides the metric registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:          4,
		queueSize:            100000,
		shardCount:           16,
		minMatchMinutes:      60,
		maxRecentMatches:     10,
		recomputeConcurrency: 4,
		warningCap:           100,
		bands:                normalize.DefaultBands(),
		registry:             registry.Default(),
		stopCh:               make(chan struct{}),
		logger:               nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting canonicalization service...")

	// Initialize components
	s.store = repository.NewMemStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.normalizer = normalize.New(
		normalize.WithBands(s.bands),
	)
	s.mapper = canon.New(s.registry,
		canon.WithWarningCap(s.warningCap),
	)
	s.calculator = gamemodel.New(s.store, s.store, s.store, s.registry,
		gamemodel.WithMinMinutes(s.minMatchMinutes),
		gamemodel.WithMaxMatches(s.maxRecentMatches),
		gamemodel.WithConcurrency(s.recomputeConcurrency),
	)

	// Create and start the worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.normalizer, s.mapper, s.store, s.calculator)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "canonicalization service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("registryMetrics", s.registry.Len()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping canonicalization service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close store
	if s.store != nil {
		_ = s.store.Close()
	}

	// Close queue
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "canonicalization service stopped")
}

// SubmitReport mints a report ID and enqueues the table for asynchronous
// processing.
func (s *Service) SubmitReport(ctx context.Context, clubID, eventID, eventType string, table model.ParsedTable, snapshot model.ProfileSnapshot) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	reportID := uuid.NewString()
	job := model.IngestJob{
		ReportID:    reportID,
		ClubID:      clubID,
		EventID:     eventID,
		EventType:   eventType,
		Table:       table,
		Snapshot:    snapshot,
		SubmittedAt: time.Now().UTC(),
	}

	if !s.jobQueue.Enqueue(ctx, job) {
		metrics.RecordErrorByComponent("service", "queue_full")
		return "", ErrQueueFull
	}

	metrics.RecordReportSubmitted()
	s.logger.Debug(ctx, "report enqueued",
		logger.String("reportID", reportID),
		logger.String("clubID", clubID),
		logger.String("eventID", eventID),
	)
	return reportID, nil
}

// Report returns a processed report by ID.
func (s *Service) Report(ctx context.Context, id string) (model.Report, error) {
	return s.store.Report(ctx, id)
}

// GameModel returns a player's current game model.
func (s *Service) GameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error) {
	return s.store.Get(ctx, playerID, clubID)
}

// RecomputeGameModel rebuilds one player's game model on demand.
func (s *Service) RecomputeGameModel(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, error) {
	return s.calculator.Recompute(ctx, playerID, clubID)
}

// RecomputeTeam rebuilds every rostered player's game model.
func (s *Service) RecomputeTeam(ctx context.Context, clubID string) (model.TeamRecomputeResult, error) {
	return s.calculator.RecomputeForTeam(ctx, clubID)
}

// CleanupClub sweeps a club's stored models for stale match references.
func (s *Service) CleanupClub(ctx context.Context, clubID string) (gamemodel.CleanupResult, error) {
	return s.calculator.CleanupClub(ctx, clubID)
}

// Registry returns the exported metric reference list.
func (s *Service) Registry(ctx context.Context) registry.ExportedRegistry {
	return s.registry.Export()
}

// AuditRegistry classifies a live metric list against the reference
// registry.
func (s *Service) AuditRegistry(ctx context.Context, live []registry.ReferenceRow) registry.AuditReport {
	return s.registry.Audit(live)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"registryVersion": s.registry.Version(),
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		stats["queueLength"] = queueLen

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
