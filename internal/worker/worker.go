package worker

import (
	"context"
	"sync"
)

type ProcessFunc[T any] func(ctx context.Context, job T) error

// Pool runs a fixed number of workers over a buffered job queue.
type Pool[T any] struct {
	numWorkers int
	jobs       chan T
	processor  ProcessFunc[T]
	onError    func(job T, err error)
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

func NewPool[T any](numWorkers int, bufferSize int, processor ProcessFunc[T]) *Pool[T] {
	return &Pool[T]{
		numWorkers: numWorkers,
		jobs:       make(chan T, bufferSize),
		processor:  processor,
	}
}

// OnError registers a callback for jobs whose processor returned an error.
// It must be set before Start.
func (p *Pool[T]) OnError(fn func(job T, err error)) {
	p.onError = fn
}

func (p *Pool[T]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool[T]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil && p.onError != nil {
				p.onError(job, err)
			}
		}
	}
}

// Submit blocks until the job is queued.
func (p *Pool[T]) Submit(job T) {
	p.jobs <- job
}

// TrySubmit queues the job if there is room and reports whether it did.
func (p *Pool[T]) TrySubmit(job T) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for the workers to exit. Safe to call more
// than once; no Submit may follow it.
func (p *Pool[T]) Stop() {
	p.closeOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
