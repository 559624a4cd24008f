package utils

import (
	"sync"
	"time"
)

// WorkerPool runs submitted jobs on at most maxWorkers goroutines, starting
// jobs no closer together than minInterval.
type WorkerPool struct {
	minInterval time.Duration
	semaphore   chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	lastStart   time.Time
}

// NewWorkerPool creates a WorkerPool. maxWorkers below one is treated as one.
func NewWorkerPool(maxWorkers int, minInterval time.Duration) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		minInterval: minInterval,
		semaphore:   make(chan struct{}, maxWorkers),
	}
}

// Submit blocks until a worker slot is free, then runs job asynchronously.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.enforceRateLimit()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) enforceRateLimit() {
	if wp.minInterval <= 0 {
		return
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wait := wp.minInterval - time.Since(wp.lastStart); wait > 0 {
		time.Sleep(wait)
	}
	wp.lastStart = time.Now()
}
