package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/progress"
)

const (
	EventNameOrderStatusChanged = "OrderStatusChanged"
	EventNameBookingCreated     = "BookingCreated"
	EventNameCertificateIssued  = "CertificateIssued"
	EventNameDispatchUpdate     = "DispatchUpdate"

	eventVersion = 1
)

// OrderStatusChangedPayload is emitted on every order transition so the
// tracking UI can follow the lifecycle.
type OrderStatusChangedPayload struct {
	OrderID               string       `json:"orderId"`
	UserID                string       `json:"userId"`
	Status                order.Status `json:"status"`
	CancelReason          string       `json:"cancelReason,omitempty"`
	TotalCents            int64        `json:"totalCents"`
	EstimatedCompletionAt time.Time    `json:"estimatedCompletionAt"`
	Timestamp             time.Time    `json:"timestamp"`
}

type BookingCreatedPayload struct {
	BookingID        string         `json:"bookingId"`
	Kind             booking.Kind   `json:"kind"`
	UserID           string         `json:"userId"`
	TotalCents       int64          `json:"totalCents"`
	Status           booking.Status `json:"status"`
	ConfirmationCode string         `json:"confirmationCode"`
	Timestamp        time.Time      `json:"timestamp"`
}

type CertificateIssuedPayload struct {
	CertificateID     string    `json:"certificateId"`
	CourseID          string    `json:"courseId"`
	CertificateNumber string    `json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}

// DispatchUpdatePayload is consumed from the dispatch/tracking collaborator
// and drives the order state machine forward.
type DispatchUpdatePayload struct {
	OrderID   string    `json:"orderId"`
	Action    string    `json:"action"` // "advance" or "cancel"
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	DispatchActionAdvance = "advance"
	DispatchActionCancel  = "cancel"
)

func newOrderStatusEvent(o *order.Order, seq int64, producer string, ts time.Time) Envelope[OrderStatusChangedPayload] {
	return Envelope[OrderStatusChangedPayload]{
		EventName:     EventNameOrderStatusChanged,
		EventVersion:  eventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: o.ID,
		Producer:      producer,
		PartitionKey:  o.UserID,
		Sequence:      seq,
		OccurredAt:    ts,
		Payload: OrderStatusChangedPayload{
			OrderID:               o.ID,
			UserID:                o.UserID,
			Status:                o.Status,
			CancelReason:          o.CancelReason,
			TotalCents:            o.Checkout.TotalCents,
			EstimatedCompletionAt: o.EstimatedCompletionAt,
			Timestamp:             ts,
		},
	}
}

func newBookingCreatedEvent(b *booking.Booking, seq int64, producer string, ts time.Time) Envelope[BookingCreatedPayload] {
	return Envelope[BookingCreatedPayload]{
		EventName:     EventNameBookingCreated,
		EventVersion:  eventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: b.ID,
		Producer:      producer,
		PartitionKey:  partitionKeyOr(b.UserID, b.ID),
		Sequence:      seq,
		OccurredAt:    ts,
		Payload: BookingCreatedPayload{
			BookingID:        b.ID,
			Kind:             b.Kind,
			UserID:           b.UserID,
			TotalCents:       b.TotalCents,
			Status:           b.Status,
			ConfirmationCode: b.ConfirmationCode,
			Timestamp:        ts,
		},
	}
}

func newCertificateIssuedEvent(cert progress.Certificate, seq int64, producer string, ts time.Time) Envelope[CertificateIssuedPayload] {
	return Envelope[CertificateIssuedPayload]{
		EventName:     EventNameCertificateIssued,
		EventVersion:  eventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: cert.CourseID,
		Producer:      producer,
		PartitionKey:  cert.CourseID,
		Sequence:      seq,
		OccurredAt:    ts,
		Payload: CertificateIssuedPayload{
			CertificateID:     cert.ID,
			CourseID:          cert.CourseID,
			CertificateNumber: cert.CertificateNumber,
			IssuedAt:          cert.IssuedAt,
		},
	}
}

func partitionKeyOr(key, fallback string) string {
	if key != "" {
		return key
	}
	return fallback
}
