package testreports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gpscanon/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete report ingestion test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting report ingestion test",
		logger.String("baseURL", config.BaseURL),
		logger.String("clubID", config.ClubID),
		logger.Int("reports", config.NumReports),
		logger.Int("players", config.NumPlayers),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate match reports
	reports, err := generateReports(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	// Step 3: Submit reports concurrently
	if err := submitReports(ctx, config, reports, stats); err != nil {
		return fmt.Errorf("report submission failed: %w", err)
	}

	// Step 4: Wait for asynchronous processing
	logger.Get().Info(ctx, "waiting for reports to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Rebuild every player's game model from the full history
	if err := triggerTeamRecompute(ctx, config); err != nil {
		return fmt.Errorf("team recompute failed: %w", err)
	}

	// Step 6: Retrieve game models concurrently
	models, err := retrieveGameModels(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("game model retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(ctx, config, models, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save reports to file
	if err := saveReportsToFile(ctx, config, reports); err != nil {
		logger.Get().Warn(ctx, "failed to save reports to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReportsToFile saves the generated reports to a JSON file.
func saveReportsToFile(ctx context.Context, config *Config, reports []ReportPayload) error {
	if len(reports) == 0 {
		return fmt.Errorf("no reports to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_reports_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write reports to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, report := range reports {
		jsonData, err := marshalJSON(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write report %d: %w", i, err)
		}

		// Add comma except for last report
		if i < len(reports)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "reports saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, reportsPerSecond float64

	if stats.ReportsSubmitted > 0 {
		successRate = float64(stats.ReportsSuccessful) / float64(stats.ReportsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		reportsPerSecond = float64(stats.ReportsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("reportsGenerated", stats.ReportsGenerated),
		logger.Int("reportsSubmitted", stats.ReportsSubmitted),
		logger.Int("reportsSuccessful", stats.ReportsSuccessful),
		logger.Int("reportsFailed", stats.ReportsFailed),
		logger.Int("modelsRetrieved", stats.ModelsRetrieved),
		logger.Int("modelsMissing", stats.ModelsMissing),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("reportsPerSecond", reportsPerSecond))
}
