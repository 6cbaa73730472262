package model

import "time"

// PlayerMatchRecord is one player's canonical numeric metrics for one match,
// the unit of input to game model aggregation.
type PlayerMatchRecord struct {
	MatchID    string             `json:"matchId"`
	ReportID   string             `json:"reportId"`
	PlayerID   string             `json:"playerId"`
	ClubID     string             `json:"clubId"`
	RecordedAt time.Time          `json:"recordedAt"`
	Metrics    map[string]float64 `json:"metrics"`
}

// PlayerGameModel is a player's rolling baseline: per-minute metric rates
// averaged over their most recent qualifying matches. Version increments
// monotonically on every successful recompute.
type PlayerGameModel struct {
	PlayerID     string             `json:"playerId"`
	ClubID       string             `json:"clubId"`
	CalculatedAt time.Time          `json:"calculatedAt"`
	MatchesCount int                `json:"matchesCount"`
	TotalMinutes int                `json:"totalMinutes"`
	Metrics      map[string]float64 `json:"metrics"`
	MatchIDs     []string           `json:"matchIds"`
	Version      int                `json:"version"`
}

// TeamRecomputeResult summarizes a roster-wide recompute.
type TeamRecomputeResult struct {
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}
