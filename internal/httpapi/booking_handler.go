package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/commerce-core/internal/booking"
)

// BookingPublisher emits the booking.created event after a booking is
// persisted. Delivery is best effort.
type BookingPublisher interface {
	PublishBookingCreated(ctx context.Context, b *booking.Booking) error
}

type BookingHandler struct {
	factory   *booking.Factory
	bookings  booking.Repository
	publisher BookingPublisher
	logger    *log.Logger
}

func NewBookingHandler(factory *booking.Factory, bookings booking.Repository, publisher BookingPublisher, logger *log.Logger) *BookingHandler {
	return &BookingHandler{factory: factory, bookings: bookings, publisher: publisher, logger: logger}
}

type bookFlightRequest struct {
	UserID     string `json:"userId"`
	FlightID   string `json:"flightId"`
	Passengers int    `json:"passengers"`
}

func (h *BookingHandler) BookFlight(w http.ResponseWriter, r *http.Request) {
	var req bookFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.FlightID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or flightId")
		return
	}

	b, err := h.factory.BookFlight(r.Context(), req.FlightID, req.Passengers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	b.UserID = req.UserID

	h.persistAndRespond(w, r, b)
}

type bookHotelRequest struct {
	UserID     string    `json:"userId"`
	HotelID    string    `json:"hotelId"`
	RoomTypeID string    `json:"roomTypeId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
}

func (h *BookingHandler) BookHotel(w http.ResponseWriter, r *http.Request) {
	var req bookHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.HotelID == "" || req.RoomTypeID == "" {
		writeError(w, http.StatusBadRequest, "missing userId, hotelId or roomTypeId")
		return
	}

	b, err := h.factory.BookHotel(r.Context(), req.HotelID, req.RoomTypeID, req.CheckIn, req.CheckOut, req.Guests)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	b.UserID = req.UserID

	h.persistAndRespond(w, r, b)
}

func (h *BookingHandler) persistAndRespond(w http.ResponseWriter, r *http.Request, b *booking.Booking) {
	if err := h.bookings.Create(r.Context(), b); err != nil {
		writeDomainError(w, err)
		return
	}
	if h.publisher != nil {
		if err := h.publisher.PublishBookingCreated(r.Context(), b); err != nil {
			h.logger.Printf("publish booking created bookingId=%s: %v", b.ID, err)
		}
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetByID(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) ListBookingsByUser(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := b.Cancel(); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.bookings.UpdateStatus(r.Context(), bookingID, b.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
