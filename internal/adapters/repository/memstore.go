package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Match records and game models are keyed by (playerID, clubID) and
// partitioned across shards so concurrent recomputes for different players
// never contend on one lock. Reports live in a single map guarded by their
// own lock; report traffic is far lighter than model traffic.

// playerKey joins the two halves of the player identity into one shard key.
func playerKey(playerID, clubID string) string {
	return playerID + "\x00" + clubID
}

// shard holds one partition of the keyed state.
type shard struct {
	mu      sync.RWMutex
	records map[string][]model.PlayerMatchRecord // playerKey -> match records
	models  map[string]model.PlayerGameModel     // playerKey -> game model
}

// MemStore is the in-memory Store implementation.
type MemStore struct {
	shardCount            int
	shards                []*shard
	metricsUpdateInterval time.Duration

	reportsMu sync.RWMutex
	reports   map[string]model.Report

	// Background metrics management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemStore constructs an in-memory store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		shardCount:            16,              // default shard count
		metricsUpdateInterval: 5 * time.Second, // default metrics refresh
		reports:               make(map[string]model.Report),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			records: make(map[string][]model.PlayerMatchRecord),
			models:  make(map[string]model.PlayerGameModel),
		}
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *MemStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

func (s *MemStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// SaveReport stores a report, replacing any previous one with the same ID.
func (s *MemStore) SaveReport(ctx context.Context, report model.Report) error {
	s.reportsMu.Lock()
	defer s.reportsMu.Unlock()
	s.reports[report.ID] = report
	return nil
}

// Report returns a stored report by ID.
func (s *MemStore) Report(ctx context.Context, id string) (model.Report, error) {
	s.reportsMu.RLock()
	defer s.reportsMu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "report_not_found")
		return model.Report{}, ErrNotFound
	}
	return report, nil
}

// ListReportsByClub returns all of a club's reports, newest first.
func (s *MemStore) ListReportsByClub(ctx context.Context, clubID string) ([]model.Report, error) {
	s.reportsMu.RLock()
	out := make([]model.Report, 0)
	for _, r := range s.reports {
		if r.ClubID == clubID {
			out = append(out, r)
		}
	}
	s.reportsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SaveMatchRecords stores records, replacing existing records with the same
// (playerID, clubID, matchID) triple.
func (s *MemStore) SaveMatchRecords(ctx context.Context, records []model.PlayerMatchRecord) error {
	for _, rec := range records {
		key := playerKey(rec.PlayerID, rec.ClubID)
		sh := s.shardFor(key)
		sh.mu.Lock()
		existing := sh.records[key]
		replaced := false
		for i := range existing {
			if existing[i].MatchID == rec.MatchID {
				existing[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, rec)
		}
		sh.records[key] = existing
		sh.mu.Unlock()
	}
	return nil
}

// DeleteMatchRecordsByReport removes every record derived from one report.
func (s *MemStore) DeleteMatchRecordsByReport(ctx context.Context, reportID string) (int, error) {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, recs := range sh.records {
			kept := recs[:0]
			for _, rec := range recs {
				if rec.ReportID == reportID {
					removed++
					continue
				}
				kept = append(kept, rec)
			}
			if len(kept) == 0 {
				delete(sh.records, key)
			} else {
				sh.records[key] = kept
			}
		}
		sh.mu.Unlock()
	}
	return removed, nil
}

// PlayerMatchRecords returns every stored match record for one player.
func (s *MemStore) PlayerMatchRecords(ctx context.Context, playerID, clubID string) ([]model.PlayerMatchRecord, error) {
	key := playerKey(playerID, clubID)
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	recs := sh.records[key]
	out := make([]model.PlayerMatchRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// ExistingMatchIDs reports which of the given match IDs still have a record.
func (s *MemStore) ExistingMatchIDs(ctx context.Context, playerID, clubID string, matchIDs []string) (map[string]bool, error) {
	key := playerKey(playerID, clubID)
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	stored := make(map[string]struct{}, len(sh.records[key]))
	for _, rec := range sh.records[key] {
		stored[rec.MatchID] = struct{}{}
	}
	out := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		_, ok := stored[id]
		out[id] = ok
	}
	return out, nil
}

// Get returns a player's game model.
func (s *MemStore) Get(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error) {
	key := playerKey(playerID, clubID)
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	gm, ok := sh.models[key]
	return gm, ok, nil
}

// Upsert stores a game model, assigning the next version atomically under
// the shard lock: stored version plus one, or one for a new model.
func (s *MemStore) Upsert(ctx context.Context, gm model.PlayerGameModel) (model.PlayerGameModel, error) {
	key := playerKey(gm.PlayerID, gm.ClubID)
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if existing, ok := sh.models[key]; ok {
		gm.Version = existing.Version + 1
	} else {
		gm.Version = 1
	}
	sh.models[key] = gm
	return gm, nil
}

// Delete removes a player's game model. Deleting an absent model is a no-op.
func (s *MemStore) Delete(ctx context.Context, playerID, clubID string) error {
	key := playerKey(playerID, clubID)
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.models, key)
	return nil
}

// ListByClub returns every stored game model for a club.
func (s *MemStore) ListByClub(ctx context.Context, clubID string) ([]model.PlayerGameModel, error) {
	out := make([]model.PlayerGameModel, 0)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, gm := range sh.models {
			if gm.ClubID == clubID {
				out = append(out, gm)
			}
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// PlayerIDs returns the distinct players with at least one match record in
// the club, sorted for determinism.
func (s *MemStore) PlayerIDs(ctx context.Context, clubID string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, recs := range sh.records {
			for _, rec := range recs {
				if rec.ClubID == clubID {
					seen[rec.PlayerID] = struct{}{}
					break
				}
			}
		}
		sh.mu.RUnlock()
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// startMetricsUpdater starts a background goroutine that refreshes store
// gauges at the configured interval.
func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes store-level gauges.
func (s *MemStore) updateMetrics() {
	count := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		count += len(sh.models)
		sh.mu.RUnlock()
	}
	metrics.UpdateModelsStored(count)
}
