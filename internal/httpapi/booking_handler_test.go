package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/catalog"
)

type memBookingRepo struct {
	bookings map[string]*booking.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: map[string]*booking.Booking{}}
}

func (r *memBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, bookingID string) (*booking.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status booking.Status) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type recordingBookingPublisher struct {
	published []string
}

func (p *recordingBookingPublisher) PublishBookingCreated(ctx context.Context, b *booking.Booking) error {
	p.published = append(p.published, b.ID)
	return nil
}

func newBookingRouter(repo booking.Repository, pub BookingPublisher) http.Handler {
	cat := catalog.NewMemory()
	cat.SeedFlight(catalog.Flight{ID: "fl-100", Airline: "Nordwind", Number: "NW100", FareCents: 25000})
	cat.SeedHotel(catalog.Hotel{
		ID:   "ho-1",
		Name: "Seaside",
		City: "Lisbon",
		RoomTypes: []catalog.RoomType{
			{ID: "rt-deluxe", Name: "Deluxe", PricePerNightCents: 15000},
		},
	})
	logger := log.New(io.Discard, "", 0)
	return NewRouter(Handlers{
		Cart:     &CartHandler{},
		Order:    &OrderHandler{},
		Booking:  NewBookingHandler(booking.NewFactory(cat), repo, pub, logger),
		Progress: &ProgressHandler{},
	})
}

func TestBookFlight_CreatesConfirmedBooking(t *testing.T) {
	repo := newMemBookingRepo()
	pub := &recordingBookingPublisher{}
	router := newBookingRouter(repo, pub)

	rec := postJSON(t, router, "/api/bookings/flights", bookFlightRequest{
		UserID:     "user-1",
		FlightID:   "fl-100",
		Passengers: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var b booking.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, int64(50000), b.TotalCents)
	assert.Len(t, pub.published, 1)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestBookHotel_BadDateRangeIs400(t *testing.T) {
	router := newBookingRouter(newMemBookingRepo(), nil)

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	rec := postJSON(t, router, "/api/bookings/hotels", bookHotelRequest{
		UserID:     "user-1",
		HotelID:    "ho-1",
		RoomTypeID: "rt-deluxe",
		CheckIn:    checkIn,
		CheckOut:   checkIn.Add(-24 * time.Hour),
		Guests:     2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBooking_SecondCancelIs409(t *testing.T) {
	repo := newMemBookingRepo()
	router := newBookingRouter(repo, nil)

	rec := postJSON(t, router, "/api/bookings/flights", bookFlightRequest{
		UserID:     "user-1",
		FlightID:   "fl-100",
		Passengers: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var b booking.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))

	rec = postJSON(t, router, "/api/bookings/"+b.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/bookings/"+b.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListBookingsByUser(t *testing.T) {
	repo := newMemBookingRepo()
	router := newBookingRouter(repo, nil)

	for range 2 {
		rec := postJSON(t, router, "/api/bookings/flights", bookFlightRequest{
			UserID:     "user-1",
			FlightID:   "fl-100",
			Passengers: 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []booking.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}
