package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/progress"
)

// Bus is the in-process notification channel: a callback registry keyed by
// routing key, carrying the same JSON envelopes as the AMQP publisher.
// Library users who embed this module without a broker subscribe here.
// Delivery is synchronous, in subscription order.
type Bus struct {
	sequencer Sequencer
	producer  string

	mu   sync.RWMutex
	subs map[string][]func(body []byte)
}

func NewBus() *Bus {
	return &Bus{
		sequencer: NewMemorySequencer(),
		producer:  defaultProducer,
		subs:      make(map[string][]func(body []byte)),
	}
}

// Subscribe registers a handler for a routing key. Handlers must not block:
// they run on the publisher's goroutine.
func (b *Bus) Subscribe(routingKey string, fn func(body []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[routingKey] = append(b.subs[routingKey], fn)
}

func (b *Bus) PublishOrderStatus(ctx context.Context, o *order.Order) error {
	seq, err := b.sequencer.NextSequence(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	env := newOrderStatusEvent(o, seq, b.producer, time.Now().UTC())
	return b.deliver(OrderStatusRoutingKey, env)
}

func (b *Bus) PublishBookingCreated(ctx context.Context, bk *booking.Booking) error {
	seq, err := b.sequencer.NextSequence(ctx, partitionKeyOr(bk.UserID, bk.ID))
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	env := newBookingCreatedEvent(bk, seq, b.producer, time.Now().UTC())
	return b.deliver(BookingCreatedRoutingKey, env)
}

func (b *Bus) PublishCertificateIssued(ctx context.Context, cert progress.Certificate) error {
	seq, err := b.sequencer.NextSequence(ctx, cert.CourseID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	env := newCertificateIssuedEvent(cert, seq, b.producer, time.Now().UTC())
	return b.deliver(CertificateIssuedRoutingKey, env)
}

func (b *Bus) deliver(routingKey string, env any) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	b.mu.RLock()
	handlers := make([]func(body []byte), len(b.subs[routingKey]))
	copy(handlers, b.subs[routingKey])
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(body)
	}
	return nil
}
