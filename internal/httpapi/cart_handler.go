package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/catalog"
)

type CartHandler struct {
	carts   cart.Repository
	catalog catalog.Catalog
}

func NewCartHandler(carts cart.Repository, cat catalog.Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat}
}

// loadOrNewCart returns the stored cart for the user, or a fresh empty
// cart when none exists yet.
func (h *CartHandler) loadOrNewCart(r *http.Request, userID string) (*cart.Cart, error) {
	c, err := h.carts.Get(r.Context(), userID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return &cart.Cart{
			ID:        uuid.NewString(),
			UserID:    userID,
			UpdatedAt: time.Now().UTC(),
		}, nil
	}
	return c, err
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	c, err := h.loadOrNewCart(r, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type addItemRequest struct {
	ItemID              string              `json:"itemId"`
	SelectedOptions     map[string][]string `json:"selectedOptions"`
	SpecialInstructions string              `json:"specialInstructions"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId")
		return
	}

	item, err := h.catalog.Item(r.Context(), req.ItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	c, err := h.loadOrNewCart(r, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if _, err := c.AddItem(item, cart.AddOptions{
		Selected:            req.SelectedOptions,
		SpecialInstructions: req.SpecialInstructions,
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.carts.Upsert(r.Context(), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	lineItemID := chi.URLParam(r, "lineItemId")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := c.UpdateQuantity(lineItemID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.carts.Upsert(r.Context(), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	lineItemID := chi.URLParam(r, "lineItemId")

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	c.RemoveItem(lineItemID)
	if err := h.carts.Upsert(r.Context(), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	c.Clear()
	if err := h.carts.Upsert(r.Context(), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

// cartView decorates the cart with the derived totals the clients ask
// for on every read.
func cartView(c *cart.Cart) map[string]any {
	return map[string]any{
		"cart":          c,
		"itemCount":     c.ItemCount(),
		"subtotalCents": c.SubtotalCents(),
	}
}
