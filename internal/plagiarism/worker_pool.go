package plagiarism

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

type Job interface {
	Execute(ctx context.Context) error
}

type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	once     sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
}

// creates a new worker pool; size <= 0 selects CPU-based sizing
func NewWorkerPool(ctx context.Context, size int) *WorkerPool {
	if size <= 0 {
		totalCPU := runtime.NumCPU()
		systemReserve := max(1, totalCPU/4) // Reserve 1/4 of the CPU for system processes
		size = max(1, totalCPU-systemReserve)
	}
	log.Debug().
		Int("workers", size).
		Msg("Worker pool initialized")
	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2), // Buffer 2x the worker count
		ctx:      poolCtx,
		cancel:   cancel,
	}

	pool.start()

	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if err := job.Execute(p.ctx); err != nil {
				log.Error().Err(err).Msg("Worker failed to execute job")
			}
		}
	}
}

// submits a job to the pool
func (p *WorkerPool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Done is closed once the pool is shut down
func (p *WorkerPool) Done() <-chan struct{} {
	return p.ctx.Done()
}

// closes the worker pool and waits for all workers to finish
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// returns the number of workers
func (p *WorkerPool) Size() int {
	return p.workers
}

// ComparisonJob runs the metrics of one pair and reports back under its index
type ComparisonJob struct {
	DB         *Database
	Pair       Pair
	Index      int
	ResultChan chan<- comparisonOutcome
}

type comparisonOutcome struct {
	index  int
	result PlagiarismResult
	ok     bool
}

// Execute executes the comparison job
func (j *ComparisonJob) Execute(ctx context.Context) error {
	result, ok := j.DB.RunMetrics(j.Pair)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.ResultChan <- comparisonOutcome{index: j.Index, result: result, ok: ok}:
		return nil
	}
}

// CheckUntrustedPlagiarismParallel is CheckUntrustedPlagiarism spread over pool
func (db *Database) CheckUntrustedPlagiarismParallel(ctx context.Context, pool *WorkerPool) ([]PlagiarismResult, error) {
	return db.sweepParallel(ctx, pool, db.UntrustedPairs())
}

// CheckTrustedPlagiarismParallel is CheckTrustedPlagiarism spread over pool
func (db *Database) CheckTrustedPlagiarismParallel(ctx context.Context, pool *WorkerPool) ([]PlagiarismResult, error) {
	return db.sweepParallel(ctx, pool, db.TrustedPairs())
}

// sweepParallel returns the same results, in the same order, as the sequential sweep
func (db *Database) sweepParallel(ctx context.Context, pool *WorkerPool, pairs []Pair) ([]PlagiarismResult, error) {
	// Buffered for every pair so workers never block on delivery
	resultChan := make(chan comparisonOutcome, len(pairs))

	submitted := 0
	for i, pair := range pairs {
		job := &ComparisonJob{
			DB:         db,
			Pair:       pair,
			Index:      i,
			ResultChan: resultChan,
		}
		if err := pool.Submit(job); err != nil {
			return nil, fmt.Errorf("failed to submit comparison job: %w", err)
		}
		submitted++
	}

	outcomes := make([]*PlagiarismResult, len(pairs))
	for received := 0; received < submitted; received++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-pool.Done():
			return nil, fmt.Errorf("worker pool closed with %d comparisons pending", submitted-received)
		case outcome := <-resultChan:
			if outcome.ok {
				result := outcome.result
				outcomes[outcome.index] = &result
			}
		}
	}

	results := make([]PlagiarismResult, 0)
	for _, result := range outcomes {
		if result != nil {
			results = append(results, *result)
		}
	}

	log.Debug().
		Int("pairs", len(pairs)).
		Int("results", len(results)).
		Int("workers", pool.Size()).
		Msg("Parallel sweep completed")

	return results, nil
}
