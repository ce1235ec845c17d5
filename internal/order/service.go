package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/checkout"
)

// StatusPublisher emits the order's current status on every transition so
// the tracking UI can subscribe to it.
type StatusPublisher interface {
	PublishOrderStatus(ctx context.Context, o *Order) error
}

// Service orchestrates checkout and the order lifecycle. The in-memory
// transition always happens first; persistence and publishing follow and
// cannot corrupt the aggregate's invariants.
type Service struct {
	carts     cart.Repository
	orders    Repository
	publisher StatusPublisher
	logger    *log.Logger
}

func NewService(carts cart.Repository, orders Repository, publisher StatusPublisher, logger *log.Logger) *Service {
	return &Service{carts: carts, orders: orders, publisher: publisher, logger: logger}
}

// PlaceOrder prices the user's cart, creates the order in the Placed state,
// clears the cart, and persists both. The cleared cart and the created
// order commit together or not at all from the caller's point of view:
// a pricing or persistence failure leaves the cart as it was.
func (s *Service) PlaceOrder(ctx context.Context, userID string, fees checkout.FeeSchedule, tip checkout.Tip, address, paymentRef string) (*Order, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, checkout.ErrEmptyCart
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	co, err := checkout.Price(c, fees, tip)
	if err != nil {
		return nil, err
	}

	o := New(co, userID, address, paymentRef)

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	c.Clear()
	if err := s.carts.Upsert(ctx, c); err != nil {
		// The order exists; an uncleaned cart is recoverable, a lost order
		// is not. Surface the error without undoing the order.
		return o, fmt.Errorf("clear cart after checkout: %w", err)
	}

	s.publish(ctx, o)
	return o, nil
}

// Advance moves an order one step forward and persists the new status.
func (s *Service) Advance(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := o.Advance(); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, o.Status, o.CancelReason); err != nil {
		return nil, fmt.Errorf("persist status: %w", err)
	}

	s.publish(ctx, o)
	return o, nil
}

// Cancel aborts a non-terminal order and persists the cancellation.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, o.Status, o.CancelReason); err != nil {
		return nil, fmt.Errorf("persist cancellation: %w", err)
	}

	s.publish(ctx, o)
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// publish is best effort: the tracking feed lags rather than blocking the
// lifecycle when the broker is down.
func (s *Service) publish(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderStatus(ctx, o); err != nil {
		s.logger.Printf("publish order status %s/%s: %v", o.ID, o.Status, err)
	}
}
