// Package eventbus provides a named publish/subscribe fabric.
package eventbus

import (
	"context"
	"sync"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// Handler receives a published event payload.
type Handler func(ctx context.Context, payload any)

// subscription is one registered handler with a stable order.
type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches payloads to handlers registered by event name.
// Handlers for the same event run in registration order. A panicking
// handler is recovered and logged; it never stops the remaining handlers
// and never propagates to the publisher.
type Bus struct {
	logger logger.LoggerInterface

	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

// New creates an empty Bus.
func New(log logger.LoggerInterface) *Bus {
	return &Bus{
		logger: log,
		subs:   make(map[string][]subscription),
	}
}

// Subscribe registers fn for the named event and returns an unsubscribe
// function. Calling unsubscribe more than once is a no-op.
func (b *Bus) Subscribe(event string, fn Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[event] = append(b.subs[event], subscription{id: id, handler: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.remove(event, id)
		})
	}
}

// Publish delivers payload to every handler registered for event,
// synchronously and in registration order.
func (b *Bus) Publish(ctx context.Context, event string, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.dispatch(ctx, event, sub, payload)
	}
}

func (b *Bus) dispatch(ctx context.Context, event string, sub subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error(ctx, "event handler panicked", "event", event, "panic", r)
			}
		}
	}()
	sub.handler(ctx, payload)
}

func (b *Bus) remove(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}
