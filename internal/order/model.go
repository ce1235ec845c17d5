package order

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/commerce-core/internal/checkout"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Order is the post-checkout, status-bearing record. The priced checkout is
// baked in at creation and never changes; only Status (and CancelReason)
// mutate afterwards, and only through Advance/Cancel.
type Order struct {
	ID                    string                  `json:"orderId"`
	UserID                string                  `json:"userId"`
	Checkout              checkout.PricedCheckout `json:"checkout"`
	DeliveryAddress       string                  `json:"deliveryAddress"`
	PaymentMethodRef      string                  `json:"paymentMethodRef"`
	Status                Status                  `json:"status"`
	CancelReason          string                  `json:"cancelReason,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
	EstimatedCompletionAt time.Time               `json:"estimatedCompletionAt"`
}

// defaultFulfillmentWindow feeds the initial delivery estimate shown to the
// tracking UI. Dispatch may revise it out of band.
const defaultFulfillmentWindow = 45 * time.Minute

// New creates an order in the Placed state from a priced checkout snapshot.
// The address and payment reference are opaque collaborator values and are
// not validated here.
func New(co checkout.PricedCheckout, userID, address, paymentRef string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Checkout:              co,
		DeliveryAddress:       address,
		PaymentMethodRef:      paymentRef,
		Status:                StatusPlaced,
		CreatedAt:             now,
		EstimatedCompletionAt: now.Add(defaultFulfillmentWindow),
	}
}

// Advance moves the order one step forward in the canonical sequence. A
// failed advance leaves the status untouched.
func (o *Order) Advance() (Status, error) {
	next, ok := o.Status.next()
	if !ok {
		return o.Status, ErrInvalidTransition
	}
	o.Status = next
	return next, nil
}

// Cancel moves the order to Cancelled from any non-terminal state.
func (o *Order) Cancel(reason string) error {
	if o.Status.Terminal() {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	o.CancelReason = reason
	return nil
}
