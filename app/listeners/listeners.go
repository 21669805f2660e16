// Package listeners wires domain events to their side effects: queued receipt
// jobs and the live inventory feed.
package listeners

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/events"
	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

// Publisher broadcasts to live dashboards. *ws.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, data interface{})
}

// Dispatcher queues background jobs. *queue.Manager satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// Option adjusts Register.
type Option func(*options)

type options struct {
	emailReceipts bool
}

// WithReceiptEmails also queues an EmailReceipt job for every sale whose
// customer left an email address.
func WithReceiptEmails() Option {
	return func(o *options) { o.emailReceipts = true }
}

// Register attaches every listener to bus. Either dependency may be nil, in
// which case the listeners that need it are skipped.
func Register(bus *event.Bus, dispatcher Dispatcher, feed Publisher, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if dispatcher != nil {
		bus.Listen(events.SaleConfirmed, archiveReceipt(dispatcher))
		if o.emailReceipts {
			bus.Listen(events.SaleConfirmed, emailReceipt(dispatcher))
		}
	}
	if feed == nil {
		return
	}

	bus.Listen(events.SaleConfirmed, func(_ context.Context, payload interface{}) error {
		o, ok := payload.(models.Order)
		if !ok {
			return fmt.Errorf("%s: unexpected payload %T", events.SaleConfirmed, payload)
		}
		feed.Publish(events.SaleConfirmed, resource.One(resources.SaleReceipt, o))
		return nil
	})
	for _, name := range []string{events.UnitCreated, events.UnitUpdated} {
		name := name
		bus.Listen(name, func(_ context.Context, payload interface{}) error {
			u, ok := payload.(models.Unit)
			if !ok {
				return fmt.Errorf("%s: unexpected payload %T", name, payload)
			}
			feed.Publish(name, resource.One(resources.Unit, u))
			return nil
		})
	}
	for _, name := range []string{events.UnitDeleted, events.OrderUpdated, events.CatalogChanged} {
		name := name
		bus.Listen(name, func(_ context.Context, payload interface{}) error {
			feed.Publish(name, payload)
			return nil
		})
	}
}

func archiveReceipt(dispatcher Dispatcher) event.Handler {
	return func(ctx context.Context, payload interface{}) error {
		o, ok := payload.(models.Order)
		if !ok {
			return fmt.Errorf("%s: unexpected payload %T", events.SaleConfirmed, payload)
		}
		return dispatcher.Dispatch(ctx, &jobs.ArchiveReceipt{Receipt: o})
	}
}

func emailReceipt(dispatcher Dispatcher) event.Handler {
	return func(ctx context.Context, payload interface{}) error {
		o, ok := payload.(models.Order)
		if !ok {
			return fmt.Errorf("%s: unexpected payload %T", events.SaleConfirmed, payload)
		}
		if o.CustomerEmail == nil || *o.CustomerEmail == "" {
			return nil
		}
		return dispatcher.Dispatch(ctx, &jobs.EmailReceipt{Receipt: o})
	}
}
