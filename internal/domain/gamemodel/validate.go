package gamemodel

import "context"

// Status classifies a stored model against the match records that still
// exist for its player.
type Status string

const (
	// StatusValid means every referenced match still has a record.
	StatusValid Status = "valid"
	// StatusPartiallyStale means some referenced matches are gone.
	StatusPartiallyStale Status = "partially_stale"
	// StatusFullyStale means no referenced match has a record anymore.
	StatusFullyStale Status = "fully_stale"
)

// validateModel checks a stored model's match references and returns its
// status together with the IDs that still resolve.
func (c *Calculator) validateModel(ctx context.Context, playerID, clubID string, matchIDs []string) (Status, []string, error) {
	if len(matchIDs) == 0 {
		return StatusFullyStale, nil, nil
	}
	existing, err := c.matches.ExistingMatchIDs(ctx, playerID, clubID, matchIDs)
	if err != nil {
		return "", nil, err
	}
	valid := make([]string, 0, len(matchIDs))
	for _, id := range matchIDs {
		if existing[id] {
			valid = append(valid, id)
		}
	}
	switch {
	case len(valid) == 0:
		return StatusFullyStale, valid, nil
	case len(valid) < len(matchIDs):
		return StatusPartiallyStale, valid, nil
	default:
		return StatusValid, valid, nil
	}
}
