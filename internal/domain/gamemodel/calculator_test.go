package gamemodel_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gamemodel "github.com/okian/gpscanon/internal/domain/gamemodel"
	model "github.com/okian/gpscanon/internal/domain/model"
	registry "github.com/okian/gpscanon/internal/domain/registry"
	logging "github.com/okian/gpscanon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore is an in-memory MatchSource, ModelStore, and Roster.
type fakeStore struct {
	mu      sync.Mutex
	records map[string][]model.PlayerMatchRecord
	models  map[string]model.PlayerGameModel
	failGet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string][]model.PlayerMatchRecord),
		models:  make(map[string]model.PlayerGameModel),
	}
}

func (f *fakeStore) key(playerID, clubID string) string { return playerID + "|" + clubID }

func (f *fakeStore) addRecord(rec model.PlayerMatchRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(rec.PlayerID, rec.ClubID)
	f.records[k] = append(f.records[k], rec)
}

func (f *fakeStore) removeMatch(playerID, clubID, matchID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(playerID, clubID)
	kept := f.records[k][:0]
	for _, rec := range f.records[k] {
		if rec.MatchID != matchID {
			kept = append(kept, rec)
		}
	}
	f.records[k] = kept
}

func (f *fakeStore) PlayerMatchRecords(ctx context.Context, playerID, clubID string) ([]model.PlayerMatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PlayerMatchRecord(nil), f.records[f.key(playerID, clubID)]...), nil
}

func (f *fakeStore) ExistingMatchIDs(ctx context.Context, playerID, clubID string, matchIDs []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	have := make(map[string]bool)
	for _, rec := range f.records[f.key(playerID, clubID)] {
		have[rec.MatchID] = true
	}
	out := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		out[id] = have[id]
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return model.PlayerGameModel{}, false, errors.New("store unavailable")
	}
	gm, ok := f.models[f.key(playerID, clubID)]
	return gm, ok, nil
}

func (f *fakeStore) Upsert(ctx context.Context, gm model.PlayerGameModel) (model.PlayerGameModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(gm.PlayerID, gm.ClubID)
	if existing, ok := f.models[k]; ok {
		gm.Version = existing.Version + 1
	} else {
		gm.Version = 1
	}
	f.models[k] = gm
	return gm, nil
}

func (f *fakeStore) Delete(ctx context.Context, playerID, clubID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.models, f.key(playerID, clubID))
	return nil
}

func (f *fakeStore) ListByClub(ctx context.Context, clubID string) ([]model.PlayerGameModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PlayerGameModel, 0)
	for _, gm := range f.models {
		if gm.ClubID == clubID {
			out = append(out, gm)
		}
	}
	return out, nil
}

func (f *fakeStore) PlayerIDs(ctx context.Context, clubID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, recs := range f.records {
		for _, rec := range recs {
			if rec.ClubID == clubID && !seen[rec.PlayerID] {
				seen[rec.PlayerID] = true
				out = append(out, rec.PlayerID)
			}
		}
	}
	return out, nil
}

func matchRecord(playerID, matchID string, daysAgo int, minutes, distance float64) model.PlayerMatchRecord {
	return model.PlayerMatchRecord{
		MatchID:    matchID,
		ReportID:   "report-" + matchID,
		PlayerID:   playerID,
		ClubID:     "club-1",
		RecordedAt: time.Now().AddDate(0, 0, -daysAgo),
		Metrics: map[string]float64{
			"minutes_played":   minutes,
			"total_distance_m": distance,
			"max_speed_kmh":    31.5, // not averageable
		},
	}
}

func TestRecompute(t *testing.T) {
	Convey("Given a calculator over an in-memory store", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		store := newFakeStore()
		calc := gamemodel.New(store, store, store, registry.Default())
		ctx := context.Background()

		Convey("When a player has qualifying matches with known rates", func() {
			// Rates per minute: 10, 12, 11.
			store.addRecord(matchRecord("p1", "m1", 3, 90, 900))
			store.addRecord(matchRecord("p1", "m2", 2, 80, 960))
			store.addRecord(matchRecord("p1", "m3", 1, 70, 770))

			gm, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then rates average per minute across matches", func() {
				So(err, ShouldBeNil)
				So(gm.Metrics["total_distance_m"], ShouldAlmostEqual, 11.0, 0.0001)
				So(gm.MatchesCount, ShouldEqual, 3)
				So(gm.TotalMinutes, ShouldEqual, 240)
				So(gm.Version, ShouldEqual, 1)
			})

			Convey("Then non-averageable metrics stay out of the model", func() {
				So(err, ShouldBeNil)
				So(gm.Metrics, ShouldNotContainKey, "max_speed_kmh")
				So(gm.Metrics, ShouldNotContainKey, "minutes_played")
			})

			Convey("Then match IDs are newest first", func() {
				So(err, ShouldBeNil)
				So(gm.MatchIDs, ShouldResemble, []string{"m3", "m2", "m1"})
			})

			Convey("And recomputing again bumps the version", func() {
				So(err, ShouldBeNil)
				again, err := calc.Recompute(ctx, "p1", "club-1")
				So(err, ShouldBeNil)
				So(again.Version, ShouldEqual, 2)
			})
		})

		Convey("When a match falls under the minimum minutes", func() {
			store.addRecord(matchRecord("p1", "m1", 2, 90, 900))
			store.addRecord(matchRecord("p1", "m2", 1, 55, 880)) // below 60

			gm, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then the short match is excluded", func() {
				So(err, ShouldBeNil)
				So(gm.MatchesCount, ShouldEqual, 1)
				So(gm.MatchIDs, ShouldResemble, []string{"m1"})
				So(gm.Metrics["total_distance_m"], ShouldAlmostEqual, 10.0, 0.0001)
			})
		})

		Convey("When more matches qualify than the window holds", func() {
			calc := gamemodel.New(store, store, store, registry.Default(), gamemodel.WithMaxMatches(2))
			store.addRecord(matchRecord("p1", "m1", 3, 90, 900))
			store.addRecord(matchRecord("p1", "m2", 2, 90, 900))
			store.addRecord(matchRecord("p1", "m3", 1, 90, 900))

			gm, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then only the most recent matches count", func() {
				So(err, ShouldBeNil)
				So(gm.MatchesCount, ShouldEqual, 2)
				So(gm.MatchIDs, ShouldResemble, []string{"m3", "m2"})
			})
		})

		Convey("When a metric is missing from some matches", func() {
			r1 := matchRecord("p1", "m1", 2, 90, 900)
			r1.Metrics["sprint_distance_m"] = 180 // 2 per minute
			store.addRecord(r1)
			store.addRecord(matchRecord("p1", "m2", 1, 90, 900)) // no sprint distance

			gm, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then the average only spans matches where it is present", func() {
				So(err, ShouldBeNil)
				So(gm.Metrics["sprint_distance_m"], ShouldAlmostEqual, 2.0, 0.0001)
			})
		})

		Convey("When no match qualifies", func() {
			store.addRecord(matchRecord("p1", "m1", 1, 30, 300))

			_, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then it reports no qualifying matches", func() {
				So(errors.Is(err, gamemodel.ErrNoQualifyingMatches), ShouldBeTrue)
			})

			Convey("And a previously stored model is removed", func() {
				store.mu.Lock()
				store.models[store.key("p1", "club-1")] = model.PlayerGameModel{
					PlayerID: "p1", ClubID: "club-1", MatchIDs: []string{"m1"}, Version: 3,
				}
				store.mu.Unlock()

				_, err := calc.Recompute(ctx, "p1", "club-1")
				So(errors.Is(err, gamemodel.ErrNoQualifyingMatches), ShouldBeTrue)

				_, found, getErr := store.Get(ctx, "p1", "club-1")
				So(getErr, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When a stored model references matches that no longer exist", func() {
			store.addRecord(matchRecord("p1", "m1", 2, 90, 900))
			store.addRecord(matchRecord("p1", "m2", 1, 90, 1080))
			first, err := calc.Recompute(ctx, "p1", "club-1")
			So(err, ShouldBeNil)
			So(first.MatchesCount, ShouldEqual, 2)

			store.removeMatch("p1", "club-1", "m1")

			Convey("Then the rebuild repairs the partially stale model", func() {
				healed, err := calc.Recompute(ctx, "p1", "club-1")
				So(err, ShouldBeNil)
				So(healed.MatchIDs, ShouldResemble, []string{"m2"})
				So(healed.Metrics["total_distance_m"], ShouldAlmostEqual, 12.0, 0.0001)
				So(healed.Version, ShouldEqual, 2)
			})

			Convey("And a fully stale model is deleted before the rebuild", func() {
				store.removeMatch("p1", "club-1", "m2")

				_, err := calc.Recompute(ctx, "p1", "club-1")
				So(errors.Is(err, gamemodel.ErrNoQualifyingMatches), ShouldBeTrue)

				_, found, getErr := store.Get(ctx, "p1", "club-1")
				So(getErr, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestRecomputeForTeam(t *testing.T) {
	Convey("Given a roster with mixed match history", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		store := newFakeStore()
		calc := gamemodel.New(store, store, store, registry.Default(), gamemodel.WithConcurrency(2))
		ctx := context.Background()

		store.addRecord(matchRecord("p1", "m1", 2, 90, 900))
		store.addRecord(matchRecord("p2", "m1", 2, 85, 850))
		store.addRecord(matchRecord("p3", "m1", 2, 30, 300)) // never qualifies

		Convey("When recomputing the whole team", func() {
			result, err := calc.RecomputeForTeam(ctx, "club-1")

			Convey("Then every player counts as a success", func() {
				So(err, ShouldBeNil)
				So(result.SuccessCount, ShouldEqual, 3)
				So(result.ErrorCount, ShouldEqual, 0)
			})

			Convey("Then only qualifying players have models", func() {
				So(err, ShouldBeNil)
				_, found, _ := store.Get(ctx, "p1", "club-1")
				So(found, ShouldBeTrue)
				_, found, _ = store.Get(ctx, "p3", "club-1")
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestCleanupClub(t *testing.T) {
	Convey("Given stored models in various states", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		store := newFakeStore()
		calc := gamemodel.New(store, store, store, registry.Default())
		ctx := context.Background()

		// Valid model.
		store.addRecord(matchRecord("p1", "m1", 2, 90, 900))
		_, err := calc.Recompute(ctx, "p1", "club-1")
		So(err, ShouldBeNil)

		// Partially stale model.
		store.addRecord(matchRecord("p2", "m1", 2, 90, 900))
		store.addRecord(matchRecord("p2", "m2", 1, 90, 900))
		_, err = calc.Recompute(ctx, "p2", "club-1")
		So(err, ShouldBeNil)
		store.removeMatch("p2", "club-1", "m1")

		// Fully stale model.
		store.addRecord(matchRecord("p3", "m1", 2, 90, 900))
		_, err = calc.Recompute(ctx, "p3", "club-1")
		So(err, ShouldBeNil)
		store.removeMatch("p3", "club-1", "m1")

		Convey("When sweeping the club", func() {
			result, err := calc.CleanupClub(ctx, "club-1")

			Convey("Then each state is handled", func() {
				So(err, ShouldBeNil)
				So(result.Checked, ShouldEqual, 3)
				So(result.Deleted, ShouldEqual, 1)
				So(result.Recomputed, ShouldEqual, 1)
			})

			Convey("Then the partially stale model is repaired", func() {
				So(err, ShouldBeNil)
				gm, found, _ := store.Get(ctx, "p2", "club-1")
				So(found, ShouldBeTrue)
				So(gm.MatchIDs, ShouldResemble, []string{"m2"})
			})

			Convey("Then the fully stale model is gone", func() {
				So(err, ShouldBeNil)
				_, found, _ := store.Get(ctx, "p3", "club-1")
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestCalculatorOptions(t *testing.T) {
	Convey("Given a custom qualification threshold", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		store := newFakeStore()
		calc := gamemodel.New(store, store, store, registry.Default(), gamemodel.WithMinMinutes(45))
		ctx := context.Background()

		store.addRecord(matchRecord("p1", "m1", 1, 50, 500))

		Convey("When a match clears the lowered bar", func() {
			gm, err := calc.Recompute(ctx, "p1", "club-1")

			Convey("Then it qualifies", func() {
				So(err, ShouldBeNil)
				So(gm.MatchesCount, ShouldEqual, 1)
			})
		})
	})
}
