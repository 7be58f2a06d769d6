package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/runform/pkg/logger"
)

// ErrVerification is returned when the server's answers are inconsistent.
var ErrVerification = errors.New("load test verification failed")

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes the complete load test: health check, generation, report and
// batch submission, then verification.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting runform load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("runs", cfg.Runs),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Any("seed", cfg.Seed))

	if err := checkServiceHealth(ctx, &cfg, log); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	runs := generateRuns(&cfg)
	stats.RunsGenerated = len(runs)
	for _, r := range runs {
		if r.Invalid {
			stats.InvalidGenerated++
		}
	}

	reports := submitReports(ctx, &cfg, log, runs, stats)
	batches := submitBatches(ctx, &cfg, log, runs, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	verifyErr := verifyResults(ctx, &cfg, log, runs, reports, batches, stats)

	if cfg.OutputFile != "" {
		if err := saveReports(ctx, cfg.OutputFile, log, runs, reports); err != nil {
			log.Warn(ctx, "failed to save reports to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, log, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config, log logger.Logger) error {
	log.Info(ctx, "checking service health")

	resp, err := newHTTPClient(cfg).get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %d", resp.StatusCode)
	}
	log.Info(ctx, "service is healthy")
	return nil
}

type savedReport struct {
	GeneratedRun
	Outcome outcome `json:"outcome"`
}

// saveReports writes each run with its /v1/report outcome as a JSON array.
func saveReports(ctx context.Context, filename string, log logger.Logger, runs []GeneratedRun, reports []outcome) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	saved := make([]savedReport, len(runs))
	for i := range runs {
		saved[i] = savedReport{GeneratedRun: runs[i], Outcome: reports[i]}
	}
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	log.Info(ctx, "reports saved to file", logger.String("filename", filename))
	return nil
}

func logFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, runsPerSecond float64
	if stats.ReportsSubmitted > 0 {
		successRate = float64(stats.ReportsSucceeded) / float64(stats.ReportsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		runsPerSecond = float64(stats.ReportsSubmitted+stats.BatchRunsSucceeded+stats.BatchRunsFailed) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("runsGenerated", stats.RunsGenerated),
		logger.Int("invalidGenerated", stats.InvalidGenerated),
		logger.Int("reportsSubmitted", stats.ReportsSubmitted),
		logger.Int("reportsSucceeded", stats.ReportsSucceeded),
		logger.Int("reportsRejected", stats.ReportsRejected),
		logger.Int("reportsThrottled", stats.ReportsThrottled),
		logger.Int("reportsFailed", stats.ReportsFailed),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesThrottled", stats.BatchesThrottled),
		logger.Int("batchRunsSucceeded", stats.BatchRunsSucceeded),
		logger.Int("batchRunsFailed", stats.BatchRunsFailed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("runsPerSecond", runsPerSecond))
}
