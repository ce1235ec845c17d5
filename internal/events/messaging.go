package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "commerce.events"

	OrderStatusRoutingKey       = "order.status.v1"
	BookingCreatedRoutingKey    = "booking.created.v1"
	CertificateIssuedRoutingKey = "certificate.issued.v1"
	DispatchUpdateRoutingKey    = "dispatch.update.v1"

	defaultProducer = "commerce-core"
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}
