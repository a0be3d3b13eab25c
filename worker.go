package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

const taskQueueSize = 64

type AuthProcessor interface {
	ProcessAuthChange(ctx context.Context, state models.AuthState) error
}

// WorkerPool applies auth changes off the subscriber's goroutine. With a
// single worker, changes are applied in the order they were submitted.
type WorkerPool struct {
	base      context.Context
	tasks     chan func()
	logger    *zap.Logger
	processor AuthProcessor

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWorkerPool starts size workers. Tasks run under base so that
// cancelling it aborts in-flight store calls on shutdown.
func NewWorkerPool(base context.Context, size int, processor AuthProcessor, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		base:      base,
		tasks:     make(chan func(), taskQueueSize),
		logger:    logger,
		processor: processor,
	}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}

	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

// Submit queues state for processing. The notification's own ctx only
// contributes values; cancellation follows the pool's base context.
// Submissions after Shutdown are dropped.
func (wp *WorkerPool) Submit(ctx context.Context, state models.AuthState) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		wp.logger.Warn("Dropping auth change after shutdown", zap.Bool("authenticated", state.Authenticated()))
		return
	}

	wp.tasks <- func() {
		if err := wp.processor.ProcessAuthChange(wp.base, state); err != nil {
			wp.logger.Error("Failed to process auth change",
				zap.Error(err),
				zap.String("user_id", state.UserID))
		}
	}
}

// Shutdown stops accepting work and waits for queued changes to finish.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
}
