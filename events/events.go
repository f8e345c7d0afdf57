// Package events carries storefront domain events to realtime clients and
// downstream consumers after a transaction has committed.
package events

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Kind string

const (
	OrderPlaced         Kind = "order.placed"
	OrderStatusChanged  Kind = "order.status_changed"
	SellerSuspended     Kind = "seller.suspended"
	ProductCreated      Kind = "product.created"
	NotificationCreated Kind = "notification.created"
)

// Event is addressed to the users in Recipients; an empty list reaches
// nobody over realtime but is still forwarded to stream sinks.
type Event struct {
	Kind       Kind        `json:"kind"`
	Recipients []string    `json:"recipients,omitempty"`
	OrderID    string      `json:"order_id,omitempty"`
	ProductID  string      `json:"product_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	At         time.Time   `json:"at"`
}

func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.ProductID
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type PublisherFunc func(ctx context.Context, evt Event) error

func (f PublisherFunc) Publish(ctx context.Context, evt Event) error { return f(ctx, evt) }

// Nop drops everything.
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

type multi []Publisher

// Multi fans an event out to every publisher and joins their errors.
func Multi(pubs ...Publisher) Publisher {
	var out multi
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multi) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	var firstErr error
	failed := 0
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return errors.Wrapf(firstErr, "publish %s: %d of %d sinks failed", evt.Kind, failed, len(m))
	}
	return nil
}
