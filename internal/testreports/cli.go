package testreports

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/gpscanon/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the test reports tool.
func ShowHelp() {
	os.Stdout.WriteString(`GPS Report Test Tool
====================

A concurrent tool for exercising the report ingestion pipeline end to end:
it generates synthetic match reports, submits them, and verifies the
resulting per-player game models.

Usage:
  go run cmd/test-reports/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -club string
        Club ID the synthetic reports belong to (default "club-test")
  -reports int
        Number of match reports to generate and submit (default 20)
  -players int
        Number of players per report (default 18)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated reports (default: generated_reports_TIMESTAMP.json)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-reports/main.go

  # A longer season for a bigger squad
  go run cmd/test-reports/main.go -reports 40 -players 25

  # Test with verbose output
  go run cmd/test-reports/main.go -verbose -reports 10

  # Test with custom log file
  go run cmd/test-reports/main.go -reports 30 -log my_test.log
`)
}
