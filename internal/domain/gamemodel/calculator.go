// Package gamemodel computes per-player rolling baselines from match
// history: per-minute metric rates averaged over the most recent matches
// with enough playing time. Models self-heal, so references to matches that
// no longer exist are detected and repaired on every recompute.
package gamemodel

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/okian/gpscanon/internal/domain/model"
	"github.com/okian/gpscanon/internal/domain/registry"
	"github.com/okian/gpscanon/pkg/logger"
	"github.com/okian/gpscanon/pkg/metrics"
)

// playingTimeKey is the canonical metric that qualifies a match.
const playingTimeKey = "minutes_played"

// Calculator recomputes game models from canonical match records.
type Calculator struct {
	matches     MatchSource
	store       ModelStore
	roster      Roster
	registry    *registry.Registry
	log         logger.Logger
	minMinutes  float64
	maxMatches  int
	concurrency int
	now         func() time.Time
}

// New creates a Calculator with configuration options.
func New(matches MatchSource, store ModelStore, roster Roster, reg *registry.Registry, opts ...Option) *Calculator {
	c := &Calculator{
		matches:     matches,
		store:       store,
		roster:      roster,
		registry:    reg,
		log:         logger.Named("gamemodel"),
		minMinutes:  defaultMinMinutes,
		maxMatches:  defaultMaxMatches,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Recompute rebuilds one player's game model from their current match
// history. If no match qualifies, any stored model is deleted and
// ErrNoQualifyingMatches is returned. A stored model referencing matches
// that no longer exist is repaired as a side effect, since the model is
// rebuilt from live records only.
func (c *Calculator) Recompute(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, error) {
	started := time.Now()
	defer func() {
		metrics.RecordRecomputeLatency(float64(time.Since(started).Milliseconds()))
	}()

	if err := c.selfHeal(ctx, playerID, clubID); err != nil {
		metrics.RecordRecomputeError()
		return model.PlayerGameModel{}, err
	}

	records, err := c.matches.PlayerMatchRecords(ctx, playerID, clubID)
	if err != nil {
		metrics.RecordRecomputeError()
		return model.PlayerGameModel{}, err
	}

	qualifying := c.qualifying(records)
	if len(qualifying) == 0 {
		if err := c.deleteStale(ctx, playerID, clubID); err != nil {
			metrics.RecordRecomputeError()
			return model.PlayerGameModel{}, err
		}
		return model.PlayerGameModel{}, ErrNoQualifyingMatches
	}

	computed := c.aggregate(playerID, clubID, qualifying)
	saved, err := c.store.Upsert(ctx, computed)
	if err != nil {
		metrics.RecordRecomputeError()
		return model.PlayerGameModel{}, err
	}

	metrics.RecordRecompute()
	c.log.Debug(ctx, "game model recomputed",
		logger.String("player_id", playerID),
		logger.String("club_id", clubID),
		logger.Int("matches", saved.MatchesCount),
		logger.Int("version", saved.Version))
	return saved, nil
}

// selfHeal removes a stored model whose match references have all gone
// stale. Partially stale models are left for the rebuild to overwrite.
func (c *Calculator) selfHeal(ctx context.Context, playerID, clubID string) error {
	existing, found, err := c.store.Get(ctx, playerID, clubID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	status, _, err := c.validateModel(ctx, playerID, clubID, existing.MatchIDs)
	if err != nil {
		return err
	}
	if status == StatusFullyStale {
		c.log.Warn(ctx, "deleting fully stale game model",
			logger.String("player_id", playerID),
			logger.String("club_id", clubID))
		if err := c.store.Delete(ctx, playerID, clubID); err != nil {
			return err
		}
		metrics.RecordModelDeleted()
	}
	return nil
}

func (c *Calculator) deleteStale(ctx context.Context, playerID, clubID string) error {
	_, found, err := c.store.Get(ctx, playerID, clubID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := c.store.Delete(ctx, playerID, clubID); err != nil {
		return err
	}
	metrics.RecordModelDeleted()
	return nil
}

// qualifying filters matches with enough playing time and keeps the most
// recent maxMatches of them, newest first.
func (c *Calculator) qualifying(records []model.PlayerMatchRecord) []model.PlayerMatchRecord {
	out := make([]model.PlayerMatchRecord, 0, len(records))
	for _, r := range records {
		if r.Metrics[playingTimeKey] >= c.minMinutes {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if len(out) > c.maxMatches {
		out = out[:c.maxMatches]
	}
	return out
}

// aggregate averages per-minute rates across the qualifying matches. Each
// averageable metric is divided by that match's playing time, then averaged
// over the matches where the metric is present, so a metric one vendor
// never exports does not drag the average down.
func (c *Calculator) aggregate(playerID, clubID string, matches []model.PlayerMatchRecord) model.PlayerGameModel {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	matchIDs := make([]string, 0, len(matches))
	totalMinutes := 0.0

	for _, m := range matches {
		minutes := m.Metrics[playingTimeKey]
		matchIDs = append(matchIDs, m.MatchID)
		totalMinutes += minutes
		for key, value := range m.Metrics {
			def, ok := c.registry.Lookup(key)
			if !ok || !def.Averageable {
				continue
			}
			sums[key] += value / minutes
			counts[key]++
		}
	}

	rates := make(map[string]float64, len(sums))
	for key, sum := range sums {
		rates[key] = sum / float64(counts[key])
	}

	return model.PlayerGameModel{
		PlayerID:     playerID,
		ClubID:       clubID,
		CalculatedAt: c.now().UTC(),
		MatchesCount: len(matches),
		TotalMinutes: int(math.Round(totalMinutes)),
		Metrics:      rates,
		MatchIDs:     matchIDs,
	}
}

// RecomputeForTeam recomputes every rostered player's model with bounded
// concurrency. Players are isolated: one failure never aborts the batch.
// A player correctly ending up without a model counts as a success.
func (c *Calculator) RecomputeForTeam(ctx context.Context, clubID string) (model.TeamRecomputeResult, error) {
	players, err := c.roster.PlayerIDs(ctx, clubID)
	if err != nil {
		return model.TeamRecomputeResult{}, err
	}

	var (
		mu     sync.Mutex
		result model.TeamRecomputeResult
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, c.concurrency)

	for _, playerID := range players {
		wg.Add(1)
		sem <- struct{}{}
		go func(playerID string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := c.Recompute(ctx, playerID, clubID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil, errors.Is(err, ErrNoQualifyingMatches):
				result.SuccessCount++
			default:
				result.ErrorCount++
				c.log.Error(ctx, "player recompute failed",
					logger.String("player_id", playerID),
					logger.String("club_id", clubID),
					logger.Error(err))
			}
		}(playerID)
	}
	wg.Wait()

	c.log.Info(ctx, "team recompute finished",
		logger.String("club_id", clubID),
		logger.Int("success", result.SuccessCount),
		logger.Int("errors", result.ErrorCount))
	return result, nil
}

// CleanupResult summarizes a club-wide stale model sweep.
type CleanupResult struct {
	Checked    int `json:"checked"`
	Deleted    int `json:"deleted"`
	Recomputed int `json:"recomputed"`
}

// CleanupClub sweeps every stored model in a club, deleting fully stale ones
// and recomputing partially stale ones.
func (c *Calculator) CleanupClub(ctx context.Context, clubID string) (CleanupResult, error) {
	models, err := c.store.ListByClub(ctx, clubID)
	if err != nil {
		return CleanupResult{}, err
	}

	result := CleanupResult{Checked: len(models)}
	for _, gm := range models {
		status, _, err := c.validateModel(ctx, gm.PlayerID, clubID, gm.MatchIDs)
		if err != nil {
			return result, err
		}
		switch status {
		case StatusFullyStale:
			if err := c.store.Delete(ctx, gm.PlayerID, clubID); err != nil {
				return result, err
			}
			metrics.RecordModelDeleted()
			result.Deleted++
		case StatusPartiallyStale:
			if _, err := c.Recompute(ctx, gm.PlayerID, clubID); err != nil && !errors.Is(err, ErrNoQualifyingMatches) {
				return result, err
			}
			result.Recomputed++
		}
	}

	c.log.Info(ctx, "club model cleanup finished",
		logger.String("club_id", clubID),
		logger.Int("checked", result.Checked),
		logger.Int("deleted", result.Deleted),
		logger.Int("recomputed", result.Recomputed))
	return result, nil
}
