package cart

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/commerce-core/internal/catalog"
)

var (
	// ErrOriginConflict is returned when an item from a different origin is
	// added to a non-empty cart. Callers that want to start over call Clear
	// first; the cart is never silently re-targeted.
	ErrOriginConflict = errors.New("cart holds items from a different origin")

	ErrLineItemNotFound = errors.New("line item not found")
	ErrUnknownOption    = errors.New("unknown option selection")
)

// AddOptions carries the per-line customization chosen when adding an item.
type AddOptions struct {
	Selected            map[string][]string
	SpecialInstructions string
}

// AddItem inserts a new line with quantity 1, or increments an existing
// line that matches both catalog item and selected options. Distinct option
// selections stay distinct lines. The cart is validated before any
// mutation, so a failed add leaves it untouched.
func (c *Cart) AddItem(item catalog.Item, opts AddOptions) (LineItem, error) {
	if len(c.Items) > 0 && c.OriginID != item.OriginID {
		return LineItem{}, ErrOriginConflict
	}

	optionPrice, err := optionPriceCents(item, opts.Selected)
	if err != nil {
		return LineItem{}, err
	}

	for i := range c.Items {
		if c.Items[i].ItemID == item.ID && sameSelection(c.Items[i].SelectedOptions, opts.Selected) {
			c.Items[i].Quantity++
			c.UpdatedAt = time.Now().UTC()
			return c.Items[i], nil
		}
	}

	li := LineItem{
		ID:                  uuid.NewString(),
		ItemID:              item.ID,
		Name:                item.Name,
		UnitPriceCents:      item.UnitPriceCents,
		OptionPriceCents:    optionPrice,
		Quantity:            1,
		SelectedOptions:     copySelection(opts.Selected),
		SpecialInstructions: opts.SpecialInstructions,
	}

	if len(c.Items) == 0 {
		c.OriginID = item.OriginID
	}
	c.Items = append(c.Items, li)
	c.UpdatedAt = time.Now().UTC()
	return li, nil
}

// UpdateQuantity sets the quantity of a line. Zero or negative quantities
// funnel to removal so a negative total can never exist.
func (c *Cart) UpdateQuantity(lineItemID string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(lineItemID)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrLineItemNotFound
}

// RemoveItem deletes a line unconditionally; absent lines are a no-op.
func (c *Cart) RemoveItem(lineItemID string) {
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// Clear empties the cart and resets its origin.
func (c *Cart) Clear() {
	c.Items = nil
	c.OriginID = ""
	c.UpdatedAt = time.Now().UTC()
}

// optionPriceCents sums the surcharges of the selected options, rejecting
// selections that do not exist on the item.
func optionPriceCents(item catalog.Item, selected map[string][]string) (int64, error) {
	var total int64
	for groupID, optionIDs := range selected {
		group, ok := findGroup(item, groupID)
		if !ok {
			return 0, ErrUnknownOption
		}
		for _, optionID := range optionIDs {
			found := false
			for _, opt := range group.Options {
				if opt.ID == optionID {
					total += opt.PriceCents
					found = true
					break
				}
			}
			if !found {
				return 0, ErrUnknownOption
			}
		}
	}
	return total, nil
}

func findGroup(item catalog.Item, groupID string) (catalog.OptionGroup, bool) {
	for _, g := range item.OptionGroups {
		if g.ID == groupID {
			return g, true
		}
	}
	return catalog.OptionGroup{}, false
}

func sameSelection(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for groupID, av := range a {
		bv, ok := b[groupID]
		if !ok || len(av) != len(bv) {
			return false
		}
		as := append([]string(nil), av...)
		bs := append([]string(nil), bv...)
		sort.Strings(as)
		sort.Strings(bs)
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
	}
	return true
}

func copySelection(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
