package worker

import (
	"context"
	"sync"
)

// Task is a unit of work producing one result of type R. Tasks are
// expected to handle their own failures by encoding them into R.
type Task[R any] func(ctx context.Context) R

// Pool runs tasks on a bounded set of worker goroutines and collects
// results in completion order.
type Pool[R any] struct {
	workers   int
	tasks     chan Task[R]
	results   chan R
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given number of workers. queue sizes
// the task and result buffers; callers that submit a whole batch before
// calling Wait must size it to the batch, or Submit will block once the
// buffers fill.
func NewPool[R any](workers, queue int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	if queue < workers*2 {
		queue = workers * 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool[R]{
		workers: workers,
		tasks:   make(chan Task[R], queue),
		results: make(chan R, queue),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool[R]) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task for execution. Submissions after Wait or
// Shutdown are dropped.
func (p *Pool[R]) Submit(task Task[R]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Wait closes the task queue, waits for in-flight work, and returns all
// results in the order they completed.
func (p *Pool[R]) Wait() []R {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []R
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight tasks and discards pending ones.
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
