package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/catalog"
	"github.com/oakline/commerce-core/internal/checkout"
	"github.com/oakline/commerce-core/internal/order"
)

type OrderHandler struct {
	svc     *order.Service
	carts   cart.Repository
	catalog catalog.Catalog
}

func NewOrderHandler(svc *order.Service, carts cart.Repository, cat catalog.Catalog) *OrderHandler {
	return &OrderHandler{svc: svc, carts: carts, catalog: cat}
}

type checkoutRequest struct {
	TipCents         int64  `json:"tipCents"`
	TipPercent       int    `json:"tipPercent"`
	DeliveryAddress  string `json:"deliveryAddress"`
	PaymentMethodRef string `json:"paymentMethodRef"`
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeliveryAddress == "" {
		writeError(w, http.StatusBadRequest, "missing deliveryAddress")
		return
	}

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	origin, err := h.catalog.Origin(r.Context(), c.OriginID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	fees := checkout.FeeSchedule{
		DeliveryFeeCents: origin.DeliveryFeeCents,
		ServiceFeeCents:  origin.ServiceFeeCents,
	}
	tip := checkout.FlatTip(req.TipCents)
	if req.TipPercent > 0 {
		tip = checkout.PercentTip(req.TipPercent)
	}

	o, err := h.svc.PlaceOrder(r.Context(), userID, fees, tip, req.DeliveryAddress, req.PaymentMethodRef)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrdersByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Advance(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	o, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "orderId"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
