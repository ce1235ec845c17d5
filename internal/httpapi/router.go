package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Cart     *CartHandler
	Order    *OrderHandler
	Booking  *BookingHandler
	Progress *ProgressHandler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/cart/{userId}", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Delete("/", h.Cart.ClearCart)
		r.Post("/items", h.Cart.AddItem)
		r.Put("/items/{lineItemId}", h.Cart.UpdateQuantity)
		r.Delete("/items/{lineItemId}", h.Cart.RemoveItem)
		r.Post("/checkout", h.Order.Checkout)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/{orderId}", h.Order.GetOrder)
		r.Post("/{orderId}/advance", h.Order.AdvanceOrder)
		r.Post("/{orderId}/cancel", h.Order.CancelOrder)
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/flights", h.Booking.BookFlight)
		r.Post("/hotels", h.Booking.BookHotel)
		r.Get("/{bookingId}", h.Booking.GetBooking)
		r.Post("/{bookingId}/cancel", h.Booking.CancelBooking)
	})

	r.Route("/api/users/{userId}", func(r chi.Router) {
		r.Get("/orders", h.Order.ListOrdersByUser)
		r.Get("/bookings", h.Booking.ListBookingsByUser)
	})

	r.Route("/api/courses/{courseId}", func(r chi.Router) {
		r.Post("/enroll", h.Progress.Enroll)
		r.Post("/lessons/{lessonId}/complete", h.Progress.CompleteLesson)
		r.Get("/progress", h.Progress.GetProgress)
		r.Get("/certificate", h.Progress.GetCertificate)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "commerce-core",
	})
}
