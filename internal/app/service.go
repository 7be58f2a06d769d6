// Package service wires the analysis engines behind the API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/runform/internal/adapters/mq/queue"
	workerpool "github.com/okian/runform/internal/adapters/mq/worker"
	"github.com/okian/runform/internal/domain/coaching"
	"github.com/okian/runform/internal/domain/detection"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/norms"
	"github.com/okian/runform/internal/domain/scoring"
	"github.com/okian/runform/internal/domain/types"
	"github.com/okian/runform/pkg/logger"
	"github.com/okian/runform/pkg/metrics"
)

// Operation names used in metrics and logs.
const (
	OpAnalyze         = "analyze"
	OpAnalyzeSimple   = "analyze_simple"
	OpDetectErrors    = "detect_errors"
	OpRecommendations = "recommendations"
	OpFocus           = "focus"
	OpReport          = "report"
	OpCompare         = "compare"
)

// Service runs the scoring, detection and coaching engines. The synchronous
// operations work without Start; Batch needs the worker pool.
type Service struct {
	mu sync.RWMutex

	analyzer *scoring.Analyzer
	detector *detection.Detector
	queue    *jobqueue.InMemoryQueue
	pool     *workerpool.Pool

	workerCount  int
	queueSize    int
	maxBatchSize int
	batchTimeout time.Duration
	norms        *norms.Table
	now          func() time.Time
	newID        func() string

	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	analyses  atomic.Int64
	rejected  atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    1024,
		maxBatchSize: 100,
		batchTimeout: 5 * time.Second,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	t := norms.Default()
	if s.norms != nil {
		t = *s.norms
	}
	s.analyzer = scoring.NewAnalyzer(scoring.WithNorms(t), scoring.WithClock(s.now))
	s.detector = detection.NewDetector(detection.WithNorms(t))
	return s
}

// Start launches the batch queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analysis service...")

	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	// Workers outlive the request that started the service.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, workerpool.WithLogger(s.logger))
	s.pool.Start(poolCtx)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
	)
	return nil
}

// Stop drains the batch queue and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping analysis service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()
	if err := s.pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "analysis service stopped")
}

// observe records the outcome and latency of one engine call.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	latency := float64(time.Since(start).Microseconds()) / 1000
	outcome := metrics.OutcomeOK
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		outcome = metrics.OutcomeInvalid
		s.rejected.Add(1)
		metrics.RecordValidationFailure(verr.Field)
		s.log().Debug(ctx, "input rejected", logger.String("op", op), logger.String("field", verr.Field))
	case err != nil:
		outcome = metrics.OutcomeFailed
		metrics.RecordErrorByComponent("service", op)
		s.log().Error(ctx, "operation failed", logger.String("op", op), logger.Error(err))
	}
	metrics.RecordAnalysis(op, outcome, latency)
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

func (s *Service) finishAnalysis(r *model.RunAnalysisResult) {
	r.ID = s.newID()
	s.analyses.Add(1)
	metrics.RecordCompositeScore(r.CompositeScore, string(r.Classification))
}

// Analyze scores a full run.
func (s *Service) Analyze(ctx context.Context, in model.RunBiomechanicsInput) (_ model.RunAnalysisResult, err error) { //nolint:gocritic // hugeParam: input is passed by value
	defer func(start time.Time) { s.observe(ctx, OpAnalyze, start, err) }(time.Now())

	r, err := s.analyzer.Analyze(in)
	if err != nil {
		return model.RunAnalysisResult{}, err
	}
	s.finishAnalysis(&r)
	return r, nil
}

// AnalyzeSimple scores a means-only run.
func (s *Service) AnalyzeSimple(ctx context.Context, in model.SimpleInput) (_ model.RunAnalysisResult, err error) { //nolint:gocritic // hugeParam: input is passed by value
	defer func(start time.Time) { s.observe(ctx, OpAnalyzeSimple, start, err) }(time.Now())

	r, err := s.analyzer.AnalyzeSimple(in)
	if err != nil {
		return model.RunAnalysisResult{}, err
	}
	s.finishAnalysis(&r)
	return r, nil
}

// DetectErrors runs the technique error rules.
func (s *Service) DetectErrors(ctx context.Context, in model.RunBiomechanicsInput) (_ model.ErrorDetectionResult, err error) { //nolint:gocritic // hugeParam: input is passed by value
	defer func(start time.Time) { s.observe(ctx, OpDetectErrors, start, err) }(time.Now())

	r, err := s.detector.Detect(in)
	if err != nil {
		return model.ErrorDetectionResult{}, err
	}
	for i := range r.Errors {
		metrics.RecordDetectedError(string(r.Errors[i].ErrorType), string(r.Errors[i].Severity))
	}
	return r, nil
}

// Recommend builds a training plan for caller-supplied errors. level may be
// empty.
func (s *Service) Recommend(ctx context.Context, errs []model.RunningError, level model.Level) (_ model.RecommendationResult, err error) {
	defer func(start time.Time) { s.observe(ctx, OpRecommendations, start, err) }(time.Now())

	if err = model.ValidateErrors(errs); err != nil {
		return model.RecommendationResult{}, err
	}
	if err = model.ValidateLevel("runner_level", level); err != nil {
		return model.RecommendationResult{}, err
	}
	return coaching.Recommend(errs, level), nil
}

// Focus ranks what to work on next from caller-supplied errors and analysis.
func (s *Service) Focus(ctx context.Context, errs []model.RunningError, analysis model.RunAnalysisResult) (_ model.FocusAreasResult, err error) { //nolint:gocritic // hugeParam: analysis is passed by value
	defer func(start time.Time) { s.observe(ctx, OpFocus, start, err) }(time.Now())

	if err = model.ValidateErrors(errs); err != nil {
		return model.FocusAreasResult{}, err
	}
	if err = model.ValidateLevel("analysis.classification", analysis.Classification); err != nil {
		return model.FocusAreasResult{}, err
	}
	return coaching.Focus(errs, analysis), nil
}

// Report runs every engine on one input.
func (s *Service) Report(ctx context.Context, in model.RunBiomechanicsInput) (_ model.Report, err error) { //nolint:gocritic // hugeParam: input is passed by value
	defer func(start time.Time) { s.observe(ctx, OpReport, start, err) }(time.Now())

	analysis, err := s.analyzer.Analyze(in)
	if err != nil {
		return model.Report{}, err
	}
	s.finishAnalysis(&analysis)

	detected, err := s.detector.Detect(in)
	if err != nil {
		return model.Report{}, err
	}
	for i := range detected.Errors {
		metrics.RecordDetectedError(string(detected.Errors[i].ErrorType), string(detected.Errors[i].Severity))
	}

	return model.Report{
		Analysis:        analysis,
		Errors:          detected,
		Recommendations: coaching.Recommend(detected.Errors, analysis.Classification),
		Focus:           coaching.Focus(detected.Errors, analysis),
	}, nil
}

// Compare contrasts two analyses supplied by the caller.
func (s *Service) Compare(ctx context.Context, before, after model.RunAnalysisResult) (_ model.ComparisonResult, err error) { //nolint:gocritic // hugeParam: results are passed by value
	defer func(start time.Time) { s.observe(ctx, OpCompare, start, err) }(time.Now())

	if err = model.ValidateLevel("before.classification", before.Classification); err != nil {
		return model.ComparisonResult{}, err
	}
	if err = model.ValidateLevel("after.classification", after.Classification); err != nil {
		return model.ComparisonResult{}, err
	}
	return scoring.Compare(before, after), nil
}

// Batch reports on every run in parallel on the worker pool. Per-run
// validation failures are returned in the matching BatchResult; a full
// queue fails the whole batch with jobqueue.ErrFull.
func (s *Service) Batch(ctx context.Context, runs []types.BatchRun) ([]types.BatchResult, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(runs) == 0 {
		return nil, &model.ValidationError{Field: "runs", Reason: "is required"}
	}
	if len(runs) > s.maxBatchSize {
		return nil, &model.ValidationError{Field: "runs", Reason: "at most " + strconv.Itoa(s.maxBatchSize) + " runs per batch"}
	}
	metrics.RecordBatchSize(len(runs))

	ctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()

	index := make(map[string]int, len(runs))
	results := make([]types.BatchResult, len(runs))
	replies := make(chan jobqueue.Result, len(runs))
	for i := range runs {
		id := runs[i].ID
		if id == "" {
			id = s.newID()
		}
		if _, dup := index[id]; dup {
			return nil, &model.ValidationError{Field: "runs[" + strconv.Itoa(i) + "].id", Reason: "duplicate id " + strconv.Quote(id)}
		}
		index[id] = i
		results[i].ID = id
	}

	for i := range runs {
		job := jobqueue.Job{ID: results[i].ID, Input: runs[i].Input, Reply: replies}
		if err := q.Enqueue(ctx, job); err != nil {
			return nil, fmt.Errorf("batch run %d: %w", i, err)
		}
	}

	for pending := len(runs); pending > 0; pending-- {
		select {
		case r := <-replies:
			i := index[r.ID]
			if r.Err != nil {
				results[i].Err = r.Err
				continue
			}
			report := r.Report
			results[i].Report = &report
		case <-ctx.Done():
			return nil, fmt.Errorf("batch: %d of %d runs unfinished: %w", pending, len(runs), ctx.Err())
		}
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"maxBatchSize": s.maxBatchSize,
		"analyses":     s.analyses.Load(),
		"rejected":     s.rejected.Load(),
	}

	if s.started {
		queueLen := s.queue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["processedJobs"] = s.pool.Processed()
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
