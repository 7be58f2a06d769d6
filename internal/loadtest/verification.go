package loadtest

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/okian/runform/internal/domain/detection"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/norms"
	"github.com/okian/runform/internal/domain/scoring"
	"github.com/okian/runform/pkg/logger"
)

// verifyResults checks every report on its own and against the batch answer
// for the same run. Throttled requests are skipped.
func verifyResults(ctx context.Context, cfg *Config, log logger.Logger, runs []GeneratedRun, reports, batches []outcome, stats *Stats) error {
	log.Info(ctx, "verifying results")

	classes := norms.Default().Classification
	mismatch := func(run GeneratedRun, path, reason string) {
		stats.Mismatches++
		if stats.Mismatches <= maxMismatchLogs {
			log.Warn(ctx, "mismatch",
				logger.String("run", run.ID),
				logger.String("path", path),
				logger.String("reason", reason))
		}
	}

	for i, run := range runs {
		rep := reports[i]
		if rep.Status != http.StatusTooManyRequests {
			if reason := checkOutcome(run, rep, classes); reason != "" {
				mismatch(run, "report", reason)
			}
		}

		if cfg.BatchSize == 0 || batches[i].Status == http.StatusTooManyRequests {
			continue
		}
		b := batches[i]
		if reason := checkOutcome(run, b, classes); reason != "" {
			mismatch(run, "batch", reason)
			continue
		}
		if rep.Report != nil && b.Report != nil {
			if reason := compareReports(rep.Report, b.Report); reason != "" {
				mismatch(run, "batch", reason)
			}
		}
	}

	if stats.Mismatches > 0 {
		return fmt.Errorf("%w: %d mismatches", ErrVerification, stats.Mismatches)
	}
	if stats.ReportsSucceeded == 0 && stats.RunsGenerated > stats.InvalidGenerated {
		return fmt.Errorf("%w: no report succeeded", ErrVerification)
	}
	log.Info(ctx, "result verification completed")
	return nil
}

// checkOutcome returns why o is not the expected answer for run, or "".
func checkOutcome(run GeneratedRun, o outcome, classes norms.Classification) string {
	if run.Invalid {
		if o.Error == nil || o.Error.Code != codeInvalidInput {
			return fmt.Sprintf("invalid run was not rejected (status %d)", o.Status)
		}
		if o.Error.Field != invalidField {
			return fmt.Sprintf("rejected on %q, want %q", o.Error.Field, invalidField)
		}
		return ""
	}
	if o.Report == nil {
		if o.Error != nil {
			return fmt.Sprintf("valid run failed: %s: %s", o.Error.Code, o.Error.Message)
		}
		return fmt.Sprintf("valid run failed with status %d", o.Status)
	}
	return checkReport(o.Report, classes)
}

// checkReport validates the internal consistency of one report.
func checkReport(r *model.Report, classes norms.Classification) string {
	a := r.Analysis
	if a.CompositeScore < 0 || a.CompositeScore > 100 || math.IsNaN(a.CompositeScore) {
		return fmt.Sprintf("composite score %.2f out of range", a.CompositeScore)
	}
	for _, c := range model.Categories {
		if s := a.CategoryScores.Get(c); s < 0 || s > 100 {
			return fmt.Sprintf("%s score %.2f out of range", c, s)
		}
	}
	if want := scoring.Classify(a.CompositeScore, classes); a.Classification != want {
		return fmt.Sprintf("classified %s at %.2f, want %s", a.Classification, a.CompositeScore, want)
	}
	if r.Errors.ErrorCount != len(r.Errors.Errors) {
		return fmt.Sprintf("error count %d but %d errors listed", r.Errors.ErrorCount, len(r.Errors.Errors))
	}
	if detection.HighestSeverity(r.Errors.Errors) != r.Errors.HighestSeverity {
		return fmt.Sprintf("highest severity %q does not match the listed errors", r.Errors.HighestSeverity)
	}
	return ""
}

// compareReports checks that two reports for the same input agree.
func compareReports(a, b *model.Report) string {
	switch {
	case math.Abs(a.Analysis.CompositeScore-b.Analysis.CompositeScore) > scoreTolerance:
		return fmt.Sprintf("composite %.4f vs %.4f", a.Analysis.CompositeScore, b.Analysis.CompositeScore)
	case a.Analysis.Classification != b.Analysis.Classification:
		return fmt.Sprintf("classification %s vs %s", a.Analysis.Classification, b.Analysis.Classification)
	case a.Errors.ErrorCount != b.Errors.ErrorCount:
		return fmt.Sprintf("error count %d vs %d", a.Errors.ErrorCount, b.Errors.ErrorCount)
	case len(a.Recommendations.Recommendations) != len(b.Recommendations.Recommendations):
		return "recommendation count differs"
	}
	return ""
}
