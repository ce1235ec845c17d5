package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/progress"
)

// Publisher emits enveloped events to the shared topic exchange. One
// instance is safe for the single-writer model this module assumes: each
// aggregate's transitions are already linearized by its owner.
type Publisher struct {
	ch        *amqp.Channel
	sequencer Sequencer
	producer  string
}

type PublisherOptions struct {
	Producer string
}

func NewPublisher(conn *amqp.Connection, sequencer Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = defaultProducer
	}

	return &Publisher{ch: ch, sequencer: sequencer, producer: producer}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderStatus(ctx context.Context, o *order.Order) error {
	ts := time.Now().UTC()
	seq, err := p.sequencer.NextSequence(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := newOrderStatusEvent(o, seq, p.producer, ts)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderStatusChanged: %w", err)
	}
	return p.publishJSON(ctx, OrderStatusRoutingKey, body)
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, b *booking.Booking) error {
	ts := time.Now().UTC()
	seq, err := p.sequencer.NextSequence(ctx, partitionKeyOr(b.UserID, b.ID))
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := newBookingCreatedEvent(b, seq, p.producer, ts)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal BookingCreated: %w", err)
	}
	return p.publishJSON(ctx, BookingCreatedRoutingKey, body)
}

func (p *Publisher) PublishCertificateIssued(ctx context.Context, cert progress.Certificate) error {
	ts := time.Now().UTC()
	seq, err := p.sequencer.NextSequence(ctx, cert.CourseID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := newCertificateIssuedEvent(cert, seq, p.producer, ts)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal CertificateIssued: %w", err)
	}
	return p.publishJSON(ctx, CertificateIssuedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
