package booking

import (
	"errors"
	"time"
)

type Kind string

const (
	KindFlight Kind = "flight"
	KindHotel  Kind = "hotel"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrInvalidGuestCount = errors.New("guest count must be at least 1")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// Terminal reports whether the booking can no longer change status.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Booking is the post-purchase record for a flight or hotel stay. The
// confirmation code is generated once at creation and never changes.
type Booking struct {
	ID               string    `json:"bookingId"`
	Kind             Kind      `json:"kind"`
	UserID           string    `json:"userId"`
	FlightID         string    `json:"flightId,omitempty"`
	HotelID          string    `json:"hotelId,omitempty"`
	RoomTypeID       string    `json:"roomTypeId,omitempty"`
	GuestCount       int       `json:"guestCount"`
	Nights           int       `json:"nights,omitempty"`
	UnitPriceCents   int64     `json:"unitPriceCents"`
	TotalCents       int64     `json:"totalCents"`
	DepartureAt      time.Time `json:"departureAt,omitempty"`
	ArrivalAt        time.Time `json:"arrivalAt,omitempty"`
	CheckIn          time.Time `json:"checkIn,omitempty"`
	CheckOut         time.Time `json:"checkOut,omitempty"`
	Status           Status    `json:"status"`
	ConfirmationCode string    `json:"confirmationCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Transition moves the booking to a new status. Booking statuses are not
// strictly ordered the way order fulfillment is, but terminal states are
// still closed: nothing leaves Cancelled or Completed.
func (b *Booking) Transition(to Status) error {
	if b.Status.Terminal() || b.Status == to {
		return ErrInvalidTransition
	}
	switch to {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		b.Status = to
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Cancel aborts a non-terminal booking.
func (b *Booking) Cancel() error {
	return b.Transition(StatusCancelled)
}
