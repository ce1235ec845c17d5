package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/commerce-core/internal/cart"
)

func deliveryCart() *cart.Cart {
	return &cart.Cart{
		ID:       "cart-1",
		UserID:   "user-1",
		OriginID: "rest-1",
		Items: []cart.LineItem{
			{ID: "li-1", ItemID: "item-1", Name: "Burger", UnitPriceCents: 1299, Quantity: 2},
			{ID: "li-2", ItemID: "item-2", Name: "Fries", UnitPriceCents: 499, Quantity: 1},
		},
	}
}

func TestPriceBreakdown(t *testing.T) {
	// 2 x $12.99 + 1 x $4.99, $2.99 delivery, $1.99 service, no tip.
	co, err := Price(deliveryCart(), FeeSchedule{DeliveryFeeCents: 299, ServiceFeeCents: 199}, Tip{})
	require.NoError(t, err)

	assert.Equal(t, int64(3097), co.SubtotalCents)
	assert.Equal(t, int64(3595), co.TotalCents)
	assert.Equal(t, "rest-1", co.OriginID)
	assert.Len(t, co.Items, 2)
}

func TestPriceEmptyCart(t *testing.T) {
	_, err := Price(&cart.Cart{UserID: "user-1"}, FeeSchedule{}, Tip{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Price(nil, FeeSchedule{}, Tip{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceTips(t *testing.T) {
	tests := map[string]struct {
		tip  Tip
		want int64
	}{
		"flat":                     {tip: FlatTip(500), want: 500},
		"percent":                  {tip: PercentTip(10), want: 309}, // 10% of 3097, rounded down
		"none":                     {tip: Tip{}, want: 0},
		"negative flat is clamped": {tip: FlatTip(-200), want: 0},
		"percent rounds down":      {tip: PercentTip(15), want: 464}, // 464.55 -> 464
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			co, err := Price(deliveryCart(), FeeSchedule{}, tc.tip)
			require.NoError(t, err)
			assert.Equal(t, tc.want, co.TipCents)
			assert.Equal(t, co.SubtotalCents+tc.want, co.TotalCents)
		})
	}
}

func TestPriceIsIdempotent(t *testing.T) {
	c := deliveryCart()
	fees := FeeSchedule{DeliveryFeeCents: 299, ServiceFeeCents: 199}

	first, err := Price(c, fees, PercentTip(20))
	require.NoError(t, err)
	second, err := Price(c, fees, PercentTip(20))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPriceSnapshotIsFrozen(t *testing.T) {
	c := deliveryCart()
	co, err := Price(c, FeeSchedule{}, Tip{})
	require.NoError(t, err)

	// Mutating the cart afterwards must not reach the snapshot.
	c.Items[0].Quantity = 99
	assert.Equal(t, 2, co.Items[0].Quantity)
	assert.Equal(t, int64(3097), co.SubtotalCents)
}
