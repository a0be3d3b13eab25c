package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gofalre.io/storefront/auth"
	"gofalre.io/storefront/models"
)

// EventManager connects an auth signal to the worker pool that applies
// auth changes to the cart.
type EventManager struct {
	signal auth.Signal
	logger *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
}

func NewEventManager(signal auth.Signal, logger *zap.Logger) *EventManager {
	return &EventManager{
		signal: signal,
		logger: logger,
	}
}

// SubscribeToAuthChanges registers once; later calls are no-ops until
// Unsubscribe.
func (em *EventManager) SubscribeToAuthChanges(wp *WorkerPool) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.unsubscribe != nil {
		return nil
	}

	unsubscribe, err := em.signal.Subscribe(func(ctx context.Context, state models.AuthState) {
		wp.Submit(ctx, state)
	})
	if err != nil {
		return err
	}
	em.unsubscribe = unsubscribe
	return nil
}

func (em *EventManager) Unsubscribe() {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.unsubscribe == nil {
		return
	}
	em.unsubscribe()
	em.unsubscribe = nil
}
