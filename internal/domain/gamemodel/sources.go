package gamemodel

import (
	"context"

	"github.com/okian/gpscanon/internal/domain/model"
)

// MatchSource provides the match history the calculator aggregates over.
type MatchSource interface {
	// PlayerMatchRecords returns every stored match record for one player
	// in one club, in no particular order.
	PlayerMatchRecords(ctx context.Context, playerID, clubID string) ([]model.PlayerMatchRecord, error)
	// ExistingMatchIDs reports which of the given match IDs still have a
	// backing record for the player. Used to detect stale model references
	// after report deletions.
	ExistingMatchIDs(ctx context.Context, playerID, clubID string, matchIDs []string) (map[string]bool, error)
}

// ModelStore persists computed game models. Upsert assigns the next version
// atomically: the stored version plus one, or one for a new model.
type ModelStore interface {
	Get(ctx context.Context, playerID, clubID string) (model.PlayerGameModel, bool, error)
	Upsert(ctx context.Context, gm model.PlayerGameModel) (model.PlayerGameModel, error)
	// Delete removes a player's model. Deleting an absent model is not an
	// error.
	Delete(ctx context.Context, playerID, clubID string) error
	ListByClub(ctx context.Context, clubID string) ([]model.PlayerGameModel, error)
}

// Roster enumerates the players of a club for team-wide recomputes.
type Roster interface {
	PlayerIDs(ctx context.Context, clubID string) ([]string, error)
}
