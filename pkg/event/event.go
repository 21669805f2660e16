// Package event is the in-process dispatcher that decouples the inventory
// services from their side effects (receipt archiving, the live feed).
//
//	bus := event.NewBus(pool)
//	bus.Listen(events.SaleConfirmed, archiveListener)
//	bus.FireAsync(ctx, events.SaleConfirmed, receipt)
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Handler receives an event payload. A returned error is logged, never
// propagated to the publisher.
type Handler func(ctx context.Context, payload interface{}) error

// Bus routes named events to their listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewBus returns a Bus that runs async listeners on pool. A nil pool makes
// FireAsync behave like Fire.
func NewBus(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) listeners(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[event]...)
}

// Fire runs every listener in registration order on the caller's goroutine.
func (b *Bus) Fire(ctx context.Context, event string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.listeners(event) {
		run(ctx, event, h, payload)
	}
}

// FireAsync hands each listener to the worker pool and returns at once.
// Listeners get a context detached from the request so they outlive it.
func (b *Bus) FireAsync(ctx context.Context, event string, payload interface{}) {
	if b == nil {
		return
	}
	detached := logger.InjectLogger(context.WithoutCancel(ctx), logger.WithCtx(ctx))

	for _, h := range b.listeners(event) {
		h := h
		if b.pool == nil {
			run(detached, event, h, payload)
			continue
		}
		if err := b.pool.Submit(detached, func() { run(detached, event, h, payload) }); err != nil {
			logger.WithCtx(ctx).Warn("event: listener dropped", "event", event, "error", err)
		}
	}
}

func run(ctx context.Context, event string, h Handler, payload interface{}) {
	if err := h(ctx, payload); err != nil {
		logger.WithCtx(ctx).Error("event: listener failed", "event", event, "error", err)
	}
}
