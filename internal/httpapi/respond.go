package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/catalog"
	"github.com/oakline/commerce-core/internal/checkout"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/progress"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the typed core errors onto HTTP statuses so
// handlers stay free of case-by-case plumbing.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrLineItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, progress.ErrNotEnrolled),
		errors.Is(err, progress.ErrCertificateNotFound),
		errors.Is(err, catalog.ErrOriginNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrFlightNotFound),
		errors.Is(err, catalog.ErrHotelNotFound),
		errors.Is(err, catalog.ErrRoomTypeNotFound),
		errors.Is(err, catalog.ErrCourseNotFound),
		errors.Is(err, catalog.ErrLessonNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrOriginConflict),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, booking.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, cart.ErrUnknownOption),
		errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrInvalidGuestCount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
