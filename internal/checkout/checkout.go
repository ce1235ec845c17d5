// Package checkout prices a cart against a fee schedule into a frozen
// breakdown. Pricing is pure: the same cart and schedule always produce an
// identical PricedCheckout, and the input cart is never mutated.
package checkout

import (
	"errors"

	"github.com/oakline/commerce-core/internal/cart"
)

var ErrEmptyCart = errors.New("cart has no items")

// FeeSchedule is supplied by the origin (its delivery fee) plus a fixed
// platform service fee. The calculator does not look fees up itself.
type FeeSchedule struct {
	DeliveryFeeCents int64 `json:"deliveryFeeCents"`
	ServiceFeeCents  int64 `json:"serviceFeeCents"`
}

// Tip is either a flat amount or a percentage of the subtotal. The caller
// picks one before pricing.
type Tip struct {
	FlatCents int64
	Percent   int
}

func FlatTip(cents int64) Tip { return Tip{FlatCents: cents} }

func PercentTip(percent int) Tip { return Tip{Percent: percent} }

// PricedCheckout is the immutable snapshot baked into an order at checkout
// time. It carries its own copy of the line items.
type PricedCheckout struct {
	OriginID         string          `json:"originId"`
	Items            []cart.LineItem `json:"items"`
	SubtotalCents    int64           `json:"subtotalCents"`
	DeliveryFeeCents int64           `json:"deliveryFeeCents"`
	ServiceFeeCents  int64           `json:"serviceFeeCents"`
	TipCents         int64           `json:"tipCents"`
	TotalCents       int64           `json:"totalCents"`
}

// Price computes the breakdown for a cart. It fails on an empty cart and
// otherwise has no failure modes: all inputs are already-resolved values.
func Price(c *cart.Cart, fees FeeSchedule, tip Tip) (PricedCheckout, error) {
	if c == nil || len(c.Items) == 0 {
		return PricedCheckout{}, ErrEmptyCart
	}

	subtotal := c.SubtotalCents()
	tipCents := tip.FlatCents
	if tipCents < 0 {
		// Tips never reduce the total.
		tipCents = 0
	}
	if tip.Percent > 0 {
		// Percentage tips round down to the whole cent.
		tipCents = subtotal * int64(tip.Percent) / 100
	}

	co := PricedCheckout{
		OriginID:         c.OriginID,
		Items:            snapshotItems(c.Items),
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fees.DeliveryFeeCents,
		ServiceFeeCents:  fees.ServiceFeeCents,
		TipCents:         tipCents,
	}
	co.TotalCents = co.SubtotalCents + co.DeliveryFeeCents + co.ServiceFeeCents + co.TipCents
	return co, nil
}

// snapshotItems deep-copies the lines so later cart mutations cannot leak
// into the frozen checkout.
func snapshotItems(items []cart.LineItem) []cart.LineItem {
	out := make([]cart.LineItem, len(items))
	for i, li := range items {
		out[i] = li
		if len(li.SelectedOptions) > 0 {
			sel := make(map[string][]string, len(li.SelectedOptions))
			for k, v := range li.SelectedOptions {
				sel[k] = append([]string(nil), v...)
			}
			out[i].SelectedOptions = sel
		}
	}
	return out
}
