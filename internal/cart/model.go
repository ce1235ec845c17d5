package cart

import "time"

// LineItem is one cart line: a catalog item reference plus the chosen
// quantity and options. Prices are copied from the catalog at add time;
// the line total is always recomputed, never cached.
type LineItem struct {
	ID                  string              `json:"lineItemId"`
	ItemID              string              `json:"itemId"`
	Name                string              `json:"name"`
	UnitPriceCents      int64               `json:"unitPriceCents"`
	OptionPriceCents    int64               `json:"optionPriceCents"`
	Quantity            int                 `json:"quantity"`
	SelectedOptions     map[string][]string `json:"selectedOptions,omitempty"`
	SpecialInstructions string              `json:"specialInstructions,omitempty"`
}

// LineTotalCents is quantity times unit price plus priced options.
func (li LineItem) LineTotalCents() int64 {
	return int64(li.Quantity) * (li.UnitPriceCents + li.OptionPriceCents)
}

// Cart holds the pre-checkout line items for a single origin. All items
// must belong to OriginID; the cart is owned by one user session.
type Cart struct {
	ID        string     `json:"cartId"`
	UserID    string     `json:"userId"`
	OriginID  string     `json:"originId"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SubtotalCents is the sum of all line totals.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, li := range c.Items {
		total += li.LineTotalCents()
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}
