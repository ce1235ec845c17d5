package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/commerce-core/internal/catalog"
)

// Factory prices flights and hotel stays into confirmed bookings. It only
// reads from the catalog; persistence belongs to the Repository.
type Factory struct {
	catalog catalog.Catalog
}

func NewFactory(cat catalog.Catalog) *Factory {
	return &Factory{catalog: cat}
}

// BookFlight prices a flight as fare times passenger count and issues a
// confirmed booking with a fresh confirmation code.
func (f *Factory) BookFlight(ctx context.Context, flightID string, passengers int) (*Booking, error) {
	if passengers < 1 {
		return nil, ErrInvalidGuestCount
	}

	flight, err := f.catalog.Flight(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("resolve flight %s: %w", flightID, err)
	}

	return &Booking{
		ID:               uuid.NewString(),
		Kind:             KindFlight,
		FlightID:         flight.ID,
		GuestCount:       passengers,
		UnitPriceCents:   flight.FareCents,
		TotalCents:       flight.FareCents * int64(passengers),
		DepartureAt:      flight.DepartureAt,
		ArrivalAt:        flight.ArrivalAt,
		Status:           StatusConfirmed,
		ConfirmationCode: newConfirmationCode(),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// BookHotel prices a stay as nightly rate times nights. Nights are whole
// days between check-in and check-out, never less than 1.
func (f *Factory) BookHotel(ctx context.Context, hotelID, roomTypeID string, checkIn, checkOut time.Time, guests int) (*Booking, error) {
	if guests < 1 {
		return nil, ErrInvalidGuestCount
	}
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	hotel, err := f.catalog.Hotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("resolve hotel %s: %w", hotelID, err)
	}
	roomType, err := hotel.RoomType(roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("resolve room type %s: %w", roomTypeID, err)
	}

	nights := daysBetween(checkIn, checkOut)
	if nights < 1 {
		nights = 1
	}

	return &Booking{
		ID:               uuid.NewString(),
		Kind:             KindHotel,
		HotelID:          hotel.ID,
		RoomTypeID:       roomType.ID,
		GuestCount:       guests,
		Nights:           nights,
		UnitPriceCents:   roomType.PricePerNightCents,
		TotalCents:       roomType.PricePerNightCents * int64(nights),
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Status:           StatusConfirmed,
		ConfirmationCode: newConfirmationCode(),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// newConfirmationCode derives an 8-character uppercase code from a random
// identifier. There is no allocation authority, so collisions are possible;
// the code space (16^8) makes them rare enough for display purposes.
func newConfirmationCode() string {
	return shortCode(8)
}

func shortCode(n int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:n]
}
