// Package workers runs indexed batches of independent jobs on a bounded set of goroutines.
package workers

import (
	"context"
	"sync"
)

// Pool bounds the number of goroutines a batch may use.
type Pool struct {
	numWorkers int
}

// NewPool creates a pool with the specified number of workers.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 10 // Default to 10 workers
	}
	return &Pool{numWorkers: numWorkers}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.numWorkers
}

// jobItem represents a single job
type jobItem struct {
	index int
}

// resultItem carries a job's output back to the collector
type resultItem[R any] struct {
	index  int
	result R
	err    error
}

// Run executes fn for every index in [0, n) and returns the results in index order, whatever
// order the workers finish in.
//
// onDone, if non-nil, is called from the calling goroutine after each successful job with the
// job's index and the number of jobs completed so far.
//
// Jobs that have not started when ctx is done are skipped and Run returns ctx.Err(). The first
// error returned by fn stops the remaining jobs and is returned. Partial results are never
// returned.
func Run[R any](ctx context.Context, p *Pool, n int, fn func(ctx context.Context, index int) (R, error), onDone func(index, completed int)) ([]R, error) {
	if n <= 0 {
		return []R{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan jobItem, n)
	results := make(chan resultItem[R], n)

	numActualWorkers := p.numWorkers
	if n < numActualWorkers {
		numActualWorkers = n // Don't spawn more workers than jobs
	}

	var wg sync.WaitGroup
	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(runCtx, jobs, results, fn)
		}()
	}

	for idx := 0; idx < n; idx++ {
		jobs <- jobItem{index: idx}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, n)
	completed := 0
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		out[res.index] = res.result
		completed++
		if onDone != nil && firstErr == nil {
			onDone(res.index, completed)
		}
	}

	// The caller's cancellation wins over the errors it caused downstream.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func worker[R any](ctx context.Context, jobs <-chan jobItem, results chan<- resultItem[R], fn func(context.Context, int) (R, error)) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- resultItem[R]{index: job.index, err: err}
			continue
		}
		r, err := fn(ctx, job.index)
		results <- resultItem[R]{index: job.index, result: r, err: err}
	}
}
