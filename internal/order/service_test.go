package order

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/checkout"
)

type fakeCartRepo struct {
	carts map[string]*cart.Cart

	upsertErr error
}

func (f *fakeCartRepo) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

func (f *fakeCartRepo) Upsert(ctx context.Context, c *cart.Cart) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.carts[c.UserID] = c
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*Order

	createErr error
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID string, status Status, cancelReason string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.CancelReason = cancelReason
	return nil
}

type fakePublisher struct {
	statuses []Status
	err      error
}

func (f *fakePublisher) PublishOrderStatus(ctx context.Context, o *Order) error {
	if f.err != nil {
		return f.err
	}
	f.statuses = append(f.statuses, o.Status)
	return nil
}

func testCart(userID string) *cart.Cart {
	return &cart.Cart{
		ID:       "cart-1",
		UserID:   userID,
		OriginID: "rest-1",
		Items: []cart.LineItem{
			{ID: "li-1", ItemID: "item-1", Name: "Burger", UnitPriceCents: 1299, Quantity: 2},
			{ID: "li-2", ItemID: "item-2", Name: "Fries", UnitPriceCents: 499, Quantity: 1},
		},
	}
}

func newTestService(carts *fakeCartRepo, orders *fakeOrderRepo, pub *fakePublisher) *Service {
	return NewService(carts, orders, pub, log.New(io.Discard, "", 0))
}

func TestPlaceOrder(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	orders := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(carts, orders, pub)

	fees := checkout.FeeSchedule{DeliveryFeeCents: 299, ServiceFeeCents: 199}
	o, err := svc.PlaceOrder(context.Background(), "user-1", fees, checkout.Tip{}, "1 Main St", "pm-1")
	require.NoError(t, err)

	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, int64(3595), o.Checkout.TotalCents)

	// The cart is cleared after a successful checkout.
	c, err := carts.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Empty(t, c.OriginID)

	// The order is persisted and the Placed status was published.
	stored, err := orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, stored.Status)
	assert.Equal(t, []Status{StatusPlaced}, pub.statuses)
}

func TestPlaceOrderNoCart(t *testing.T) {
	svc := newTestService(&fakeCartRepo{carts: map[string]*cart.Cart{}}, newFakeOrderRepo(), &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), "user-9", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": {ID: "cart-1", UserID: "user-1"}}}
	svc := newTestService(carts, newFakeOrderRepo(), &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestPlaceOrderCreateFailureKeepsCart(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	orders := newFakeOrderRepo()
	orders.createErr = errors.New("db down")
	svc := newTestService(carts, orders, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	require.Error(t, err)

	c, err := carts.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "failed checkout must not clear the cart")
}

func TestPlaceOrderPublishFailureIsNotFatal(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	svc := newTestService(carts, newFakeOrderRepo(), &fakePublisher{err: errors.New("broker down")})

	o, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, o.Status)
}

func TestServiceAdvancePublishesEachTransition(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	orders := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(carts, orders, pub)

	o, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	require.NoError(t, err)

	advanced, err := svc.Advance(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, advanced.Status)

	advanced, err = svc.Advance(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, advanced.Status)

	assert.Equal(t, []Status{StatusPlaced, StatusConfirmed, StatusPreparing}, pub.statuses)
}

func TestServiceAdvanceUnknownOrder(t *testing.T) {
	svc := newTestService(&fakeCartRepo{carts: map[string]*cart.Cart{}}, newFakeOrderRepo(), &fakePublisher{})

	_, err := svc.Advance(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestServiceCancelThenAdvanceFails(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	orders := newFakeOrderRepo()
	svc := newTestService(carts, orders, &fakePublisher{})

	o, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), o.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Advance(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestServicePersistFailureSurfaces(t *testing.T) {
	carts := &fakeCartRepo{carts: map[string]*cart.Cart{"user-1": testCart("user-1")}}
	orders := newFakeOrderRepo()
	svc := newTestService(carts, orders, &fakePublisher{})

	o, err := svc.PlaceOrder(context.Background(), "user-1", checkout.FeeSchedule{}, checkout.Tip{}, "", "")
	require.NoError(t, err)

	orders.updateErr = errors.New("db down")
	_, err = svc.Advance(context.Background(), o.ID)
	require.Error(t, err)

	// The stored order is untouched.
	orders.updateErr = nil
	stored, err := orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, stored.Status)
}
