package order

type Status string

const (
	StatusPlaced         Status = "placed"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusOnTheWay       Status = "on_the_way"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// forwardSequence is the canonical fulfillment order. Advance walks it one
// step at a time; nothing skips or moves backward.
var forwardSequence = []Status{
	StatusPlaced,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusPickedUp,
	StatusOnTheWay,
	StatusDelivered,
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// next returns the successor in the canonical sequence, or false when the
// status is terminal or unknown.
func (s Status) next() (Status, bool) {
	for i, st := range forwardSequence {
		if st == s && i+1 < len(forwardSequence) {
			return forwardSequence[i+1], true
		}
	}
	return "", false
}
