package testreports

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// Tolerances for generated data: rates outside the generator's ranges mean
// the pipeline converted or averaged something incorrectly.
const (
	maxRecentMatches  = 10
	distanceRateFloor = distancePerMinMin * 0.9
	distanceRateCeil  = (distancePerMinMin + distancePerMinSpan) * 1.1
)

// verifyResults checks the retrieved game models against the known
// properties of the generated reports.
func verifyResults(ctx context.Context, config *Config, models []GameModel, stats *Stats) error {
	log.Println("🔍 Verifying game models...")

	if len(models) == 0 {
		return fmt.Errorf("no game models to verify")
	}

	problems := 0
	for _, model := range models {
		for _, issue := range checkModel(model) {
			problems++
			log.Printf("⚠️  %s: %s", model.PlayerID, issue)
		}
	}

	if problems > 0 {
		log.Printf("⚠️  Verification found %d problems across %d models", problems, len(models))
	} else {
		log.Println("✅ All game models consistent")
	}

	displayTopDistanceRates(models, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// checkModel returns a list of consistency problems for one model.
func checkModel(model GameModel) []string {
	var issues []string

	if model.Version < 1 {
		issues = append(issues, fmt.Sprintf("version %d, expected >= 1", model.Version))
	}
	if model.MatchesCount < 1 || model.MatchesCount > maxRecentMatches {
		issues = append(issues, fmt.Sprintf("matchesCount %d outside [1, %d]", model.MatchesCount, maxRecentMatches))
	}
	if len(model.MatchIDs) != model.MatchesCount {
		issues = append(issues, fmt.Sprintf("%d match IDs but matchesCount %d", len(model.MatchIDs), model.MatchesCount))
	}
	if model.TotalMinutes <= 0 {
		issues = append(issues, fmt.Sprintf("totalMinutes %d, expected > 0", model.TotalMinutes))
	}

	// Per-minute distance has to fall inside the range the generator drew
	// from, with a little slack for minute rounding.
	rate, ok := model.Metrics["total_distance_m"]
	if !ok {
		issues = append(issues, "no total_distance_m rate")
	} else if rate < distanceRateFloor || rate > distanceRateCeil {
		issues = append(issues, fmt.Sprintf("distance rate %.1f m/min outside [%.1f, %.1f]",
			rate, distanceRateFloor, distanceRateCeil))
	}

	// HSR arrives as a percentage column and has to come back as a ratio.
	if ratio, ok := model.Metrics["hsr_ratio"]; ok {
		if ratio < 0 || ratio > 1 {
			issues = append(issues, fmt.Sprintf("hsr_ratio %.3f outside [0, 1]", ratio))
		}
	}

	return issues
}

// displayTopDistanceRates shows the players covering the most ground per minute.
func displayTopDistanceRates(models []GameModel, verbose bool) {
	sorted := make([]GameModel, len(models))
	copy(sorted, models)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Metrics["total_distance_m"] > sorted[j].Metrics["total_distance_m"]
	})

	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("🏃 Top %d players by distance per minute:", topN)
	for i := 0; i < topN; i++ {
		model := sorted[i]
		log.Printf("   %d. %s - %.1f m/min over %d matches (%d min)",
			i+1, model.PlayerID, model.Metrics["total_distance_m"], model.MatchesCount, model.TotalMinutes)
	}

	if verbose && len(sorted) > 0 {
		sum := 0.0
		for _, model := range sorted {
			sum += model.Metrics["total_distance_m"]
		}

		log.Printf(`📊 Distance rate statistics:
   Average: %.1f m/min
   Maximum: %.1f m/min
   Minimum: %.1f m/min
`, sum/float64(len(sorted)),
			sorted[0].Metrics["total_distance_m"],
			sorted[len(sorted)-1].Metrics["total_distance_m"])
	}
}
