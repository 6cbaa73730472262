package testreports

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okian/gpscanon/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for metric generation ranges, roughly matching an outdoor
// team-sport match.
const (
	minutesFullMatch   = 90.0
	minutesSubMin      = 20.0
	minutesSubRange    = 45.0
	distancePerMinMin  = 80.0
	distancePerMinSpan = 50.0
	maxSpeedMin        = 25.0
	maxSpeedSpan       = 11.0
	sprintsMin         = 5
	sprintsSpan        = 30
	hsrPercentMin      = 4.0
	hsrPercentSpan     = 12.0
	substituteOdds     = 4 // one in N players is a substitute
	summaryRowOdds     = 3 // one in N reports carries a Total footer row
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random integer in [0, n) using crypto/rand.
func getRandomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateReports creates synthetic match reports for one fixed roster so
// every player accumulates history across the series.
func generateReports(ctx context.Context, config *Config, stats *Stats) ([]ReportPayload, error) {
	logger.Get().Info(ctx, "generating match reports",
		logger.Int("numReports", config.NumReports),
		logger.Int("numPlayers", config.NumPlayers))

	roster := make([]string, config.NumPlayers)
	for i := range roster {
		roster[i] = fmt.Sprintf("Player %02d", i+1)
	}

	reports := make([]ReportPayload, 0, config.NumReports)
	for r := 0; r < config.NumReports; r++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during report generation: %w", ctx.Err())
		default:
		}
		reports = append(reports, generateSingleReport(config, r, roster))
	}

	stats.ReportsGenerated = len(reports)
	logger.Get().Info(ctx, "generated reports successfully", logger.Int("count", len(reports)))

	return reports, nil
}

// generateSingleReport builds one vendor-style table with declared headers
// and a column mapping snapshot.
func generateSingleReport(config *Config, index int, roster []string) ReportPayload {
	headers := []string{"Player", "Minutes Played", "Total Distance (m)", "Max Speed (km/h)", "Sprints", "HSR%"}

	rows := make([][]any, 0, len(roster)+1)
	for _, name := range roster {
		minutes := minutesFullMatch
		if getRandomInt(substituteOdds) == 0 {
			// Substitutes play a partial match and often fall below the
			// game model qualification threshold.
			minutes = minutesSubMin + getRandomFloat()*minutesSubRange
		}
		distance := minutes * (distancePerMinMin + getRandomFloat()*distancePerMinSpan)
		maxSpeed := maxSpeedMin + getRandomFloat()*maxSpeedSpan
		sprints := sprintsMin + int(getRandomInt(sprintsSpan))
		hsrPct := hsrPercentMin + getRandomFloat()*hsrPercentSpan

		rows = append(rows, []any{name, minutes, distance, maxSpeed, sprints, hsrPct})
	}

	// Some vendors append an aggregate footer the mapper has to drop.
	if getRandomInt(summaryRowOdds) == 0 {
		total := 0.0
		for _, row := range rows {
			if d, ok := row[2].(float64); ok {
				total += d
			}
		}
		rows = append(rows, []any{"Total", nil, total, nil, nil, nil})
	}

	return ReportPayload{
		ClubID:    config.ClubID,
		EventID:   fmt.Sprintf("match_%03d", index+1),
		EventType: "match",
		Table:     Table{Headers: headers, Rows: rows},
		Snapshot: Snapshot{
			Columns: []Column{
				{SourceHeader: "Player", CanonicalKey: "athlete_name", DisplayName: "Player", Order: 0, IsVisible: true},
				{SourceHeader: "Minutes Played", CanonicalKey: "minutes_played", Unit: "min", DisplayName: "Minutes", Order: 1, IsVisible: true},
				{SourceHeader: "Total Distance (m)", CanonicalKey: "total_distance_m", Unit: "m", DisplayName: "Distance", Order: 2, IsVisible: true},
				{SourceHeader: "Max Speed (km/h)", CanonicalKey: "max_speed_kmh", Unit: "km/h", DisplayName: "Max Speed", Order: 3, IsVisible: true},
				{SourceHeader: "Sprints", CanonicalKey: "number_of_sprints_count", DisplayName: "Sprints", Order: 4, IsVisible: true},
				{SourceHeader: "HSR%", CanonicalKey: "hsr_ratio", DisplayName: "HSR", Order: 5, IsVisible: true},
			},
			GPSSystem:      "synthetic",
			Sport:          "football",
			ProfileVersion: 1,
		},
	}
}
