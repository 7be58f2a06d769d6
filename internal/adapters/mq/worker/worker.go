// Package worker runs batch analysis jobs pulled from the queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/runform/internal/adapters/mq/queue"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/pkg/logger"
	"github.com/okian/runform/pkg/metrics"
)

// Processor produces the full report for one run.
type Processor interface {
	Report(ctx context.Context, in model.RunBiomechanicsInput) (model.Report, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs and replies with their results.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string
	processed *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, p Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		name:      "worker",
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when ctx is canceled, Shutdown is
// called or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	metrics.AddWorkerActive(1)
	report, err := w.processor.Report(ctx, j.Input)
	metrics.AddWorkerActive(-1)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	w.processed.Add(1)

	if err != nil {
		metrics.RecordWorkerError()
		if errors.Is(err, model.ErrInvalidInput) {
			w.logger.Debug(ctx, "run rejected", logger.String("job", j.ID), logger.Error(err))
		} else {
			metrics.RecordErrorByComponent("worker", "report_error")
			w.logger.Error(ctx, "run failed", logger.String("job", j.ID), logger.Error(err))
		}
	}

	if j.Reply == nil {
		return
	}
	select {
	case j.Reply <- queue.Result{ID: j.ID, Report: report, Err: err}:
	case <-ctx.Done():
		w.logger.Warn(ctx, "reply dropped", logger.String("job", j.ID))
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	processed *atomic.Int64
	logger    logger.Logger
}

// NewPool creates a new worker pool. A count below one means one worker
// per CPU. A logger passed with WithLogger is shared by the pool and its
// workers; otherwise the global logger is used.
func NewPool(workerCount int, q Queue, p Processor, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	var shared InMemoryWorker
	for _, opt := range opts {
		opt(&shared)
	}
	log := shared.logger
	if log == nil {
		log = logger.Get()
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     q,
		processed: new(atomic.Int64),
		logger:    log.Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		name := "worker-" + strconv.Itoa(i)
		wopts := append(append([]Option(nil), opts...), WithName(name), WithLogger(log.Named(name)))
		w := NewInMemoryWorker(q, p, wopts...)
		w.processed = pool.processed
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns how many jobs the pool has finished.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Shutdown closes the queue and waits for workers to drain it. Workers
// still busy when ctx expires are told to stop after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.done:
			continue
		default:
		}
		select {
		case <-w.done:
		case <-ctx.Done():
			close(w.shutdown)
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut > 0 {
		return fmt.Errorf("%d workers still busy: %w", timedOut, ctx.Err())
	}
	return nil
}
