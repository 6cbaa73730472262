package testreports

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// triggerTeamRecompute asks the service to rebuild every rostered player's
// game model before we read them back.
func triggerTeamRecompute(ctx context.Context, config *Config) error {
	log.Printf("🔁 Triggering team recompute for club %s...", config.ClubID)

	client := newHTTPClient(config.Timeout)
	endpoint := config.BaseURL + "/team-recompute"

	resp, err := client.Post(ctx, endpoint, map[string]string{"club_id": config.ClubID})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		SuccessCount int `json:"successCount"`
		ErrorCount   int `json:"errorCount"`
	}
	if err := unmarshalJSON(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	log.Printf("✅ Team recompute completed (success: %d, errors: %d)",
		result.SuccessCount, result.ErrorCount)
	return nil
}

// retrieveGameModels retrieves game models for the roster concurrently.
func retrieveGameModels(ctx context.Context, config *Config, stats *Stats) ([]GameModel, error) {
	log.Printf("📈 Retrieving game models for %d players with %d workers...", config.NumPlayers, config.Workers)

	client := newHTTPClient(config.Timeout)

	// The generator uses a fixed roster, so the player IDs are known.
	playerIDs := make([]string, config.NumPlayers)
	for i := range playerIDs {
		playerIDs[i] = fmt.Sprintf("Player %02d", i+1)
	}

	// Results storage
	models := make([]GameModel, len(playerIDs))
	var (
		retrieved int64
		missing   int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	playerChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range playerChan {
				select {
				case <-ctx.Done():
					return
				default:
					playerID := playerIDs[index]
					model, found, err := retrieveSingleModel(ctx, client, config, playerID)

					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get game model for %s: %v", playerID, err)
						}
					case !found:
						atomic.AddInt64(&missing, 1)
					default:
						models[index] = model
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&missing) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						miss := atomic.LoadInt64(&missing)
						fail := atomic.LoadInt64(&failed)

						log.Printf("📊 Game model progress: %d/%d (found: %d, missing: %d, failed: %d)",
							total, len(playerIDs), ret, miss, fail)
					}
				}
			}
		}(i)
	}

	// Send player indices to workers
	go func() {
		defer close(playerChan)
		for i := range playerIDs {
			select {
			case <-ctx.Done():
				return
			case playerChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (missing or failed retrievals)
	validModels := make([]GameModel, 0, len(models))
	for _, model := range models {
		if model.PlayerID != "" {
			validModels = append(validModels, model)
		}
	}

	// Update stats
	stats.ModelsRetrieved = len(validModels)
	stats.ModelsMissing = int(atomic.LoadInt64(&missing))

	log.Printf(`✅ Game model retrieval completed:
   Retrieved: %d
   Missing: %d
   Failed: %d
`, len(validModels), stats.ModelsMissing, int(atomic.LoadInt64(&failed)))

	return validModels, nil
}

// retrieveSingleModel retrieves the game model for a single player. A 404
// means the player has no qualifying matches yet and is not an error.
func retrieveSingleModel(ctx context.Context, client *HTTPClient, config *Config, playerID string) (GameModel, bool, error) {
	endpoint := fmt.Sprintf("%s/game-model/%s?club_id=%s",
		config.BaseURL, url.PathEscape(playerID), url.QueryEscape(config.ClubID))

	resp, err := client.Get(ctx, endpoint)
	if err != nil {
		return GameModel{}, false, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return GameModel{}, false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == StatusNotFound {
		return GameModel{}, false, nil
	}

	if resp.StatusCode != StatusOK {
		return GameModel{}, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var model GameModel
	if err := unmarshalJSON(body, &model); err != nil {
		return GameModel{}, false, fmt.Errorf("failed to parse response: %w", err)
	}

	return model, true, nil
}
