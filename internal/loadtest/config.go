// Package loadtest drives a running runform server with generated runs and
// checks that its answers are consistent.
package loadtest

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid load test config")

// Config holds configuration for a load test.
type Config struct {
	BaseURL      string        // Base URL of the service
	Runs         int           // Number of runs to generate
	BatchSize    int           // Runs per /v1/batch request; 0 skips the batch phase
	Workers      int           // Number of concurrent clients
	Timeout      time.Duration // HTTP request timeout
	Seed         int64         // Seed for the run generator
	InvalidEvery int           // Every Nth run is made invalid; 0 disables
	Lang         string        // Locale requested for display labels
	OutputFile   string        // Optional JSON file receiving the reports
}

// DefaultConfig returns a small load test against a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:9080",
		Runs:      200,
		BatchSize: 20,
		Workers:   8,
		Timeout:   10 * time.Second,
		Seed:      1,
		Lang:      "en",
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Runs < 1:
		return fmt.Errorf("%w: runs must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.BatchSize < 0:
		return fmt.Errorf("%w: batch size must not be negative", ErrInvalidConfig)
	case c.InvalidEvery < 0:
		return fmt.Errorf("%w: invalid-every must not be negative", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats holds load test statistics.
type Stats struct {
	RunsGenerated      int           `json:"runs_generated"`
	InvalidGenerated   int           `json:"invalid_generated"`
	ReportsSubmitted   int           `json:"reports_submitted"`
	ReportsSucceeded   int           `json:"reports_succeeded"`
	ReportsRejected    int           `json:"reports_rejected"`
	ReportsThrottled   int           `json:"reports_throttled"`
	ReportsFailed      int           `json:"reports_failed"`
	BatchesSubmitted   int           `json:"batches_submitted"`
	BatchesThrottled   int           `json:"batches_throttled"`
	BatchRunsSucceeded int           `json:"batch_runs_succeeded"`
	BatchRunsFailed    int           `json:"batch_runs_failed"`
	Mismatches         int           `json:"mismatches"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Duration           time.Duration `json:"duration"`
}
