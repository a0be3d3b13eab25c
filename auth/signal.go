// Package auth delivers sign-in and sign-out notifications to the cart.
package auth

import (
	"context"
	"sync"

	"gofalre.io/storefront/models"
)

// Handler receives every auth state notification, including repeats of the
// current state. Deciding what counts as a transition is up to the receiver.
type Handler func(ctx context.Context, state models.AuthState)

// Signal is a source of auth state notifications.
type Signal interface {
	// Subscribe registers h until the returned func is called.
	Subscribe(h Handler) (unsubscribe func(), err error)
}

var _ Signal = (*Broadcaster)(nil)

// Broadcaster is an in-process Signal. Publish calls every handler
// synchronously on the caller's goroutine.
type Broadcaster struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{handlers: make(map[int]Handler)}
}

func (b *Broadcaster) Subscribe(h Handler) (func(), error) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}, nil
}

func (b *Broadcaster) Publish(ctx context.Context, state models.AuthState) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, state)
	}
}
