package gamemodel

import "errors"

// Sentinel kinds for game model operations.
var (
	// ErrNoQualifyingMatches means the player has no match with enough
	// playing time to base a model on. Any stale stored model has been
	// removed by the time this is returned.
	ErrNoQualifyingMatches = errors.New("no qualifying matches")
)
