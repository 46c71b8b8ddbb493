package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPoolDefaults(t *testing.T) {
	if p := NewPool[int](5, 0); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool[int](0, 0); p.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool[int](-1, 0); p.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.workers)
	}
	if p := NewPool[int](2, 1); cap(p.tasks) != 4 {
		t.Errorf("expected queue floor of workers*2, got %d", cap(p.tasks))
	}
	if p := NewPool[int](2, 100); cap(p.tasks) != 100 {
		t.Errorf("expected queue of 100, got %d", cap(p.tasks))
	}
}

func TestPoolExecution(t *testing.T) {
	count := 10
	pool := NewPool[int](2, count)
	pool.Start()

	var executed int32

	for i := 0; i < count; i++ {
		i := i
		pool.Submit(func(ctx context.Context) int {
			atomic.AddInt32(&executed, 1)
			return i
		})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed tasks, got %d", count, executed)
	}

	seen := make(map[int]bool)
	for _, r := range results {
		seen[r] = true
	}
	if len(seen) != count {
		t.Errorf("expected %d distinct results, got %d", count, len(seen))
	}
}

func TestPoolConcurrencyBound(t *testing.T) {
	workers := 4
	totalTasks := 20
	pool := NewPool[struct{}](workers, totalTasks)
	pool.Start()

	var current int32
	var maxConcurrent int32
	var mu sync.Mutex

	for i := 0; i < totalTasks; i++ {
		pool.Submit(func(ctx context.Context) struct{} {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return struct{}{}
		})
	}

	results := pool.Wait()

	if len(results) != totalTasks {
		t.Errorf("expected %d results, got %d", totalTasks, len(results))
	}

	mu.Lock()
	defer mu.Unlock()
	if maxConcurrent > int32(workers) {
		t.Errorf("max concurrency %d exceeded worker count %d", maxConcurrent, workers)
	}
}

func TestPoolSubmitAfterWait(t *testing.T) {
	pool := NewPool[int](1, 0)
	pool.Start()

	pool.Submit(func(ctx context.Context) int { return 1 })

	results := pool.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Late submission is dropped, not a panic on the closed queue
	pool.Submit(func(ctx context.Context) int { return 2 })
}

func TestPoolShutdown(t *testing.T) {
	pool := NewPool[int](2, 0)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) int {
		close(started)
		<-ctx.Done()
		return -1
	})

	<-started
	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
