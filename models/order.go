package models

import "time"

// OrderState tracks a gateway order through settlement.
type OrderState string

const (
	OrderInitiated         OrderState = "initiated"
	OrderVerifying         OrderState = "verifying"
	OrderConfirmed         OrderState = "confirmed"
	OrderRejectedSignature OrderState = "rejected-signature"
	OrderRejectedConflict  OrderState = "rejected-conflict"
)

// Terminal reports whether no further transition is allowed.
func (s OrderState) Terminal() bool {
	switch s {
	case OrderConfirmed, OrderRejectedSignature, OrderRejectedConflict:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal step.
func (s OrderState) CanTransition(next OrderState) bool {
	switch s {
	case "":
		return next == OrderInitiated || next == OrderVerifying
	case OrderInitiated:
		return next == OrderVerifying
	case OrderVerifying:
		return next.Terminal()
	}
	return false
}

// Order is the gateway's payment order, amount in the smallest currency unit.
type Order struct {
	ID        string     `json:"id"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Receipt   string     `json:"receipt"`
	Status    string     `json:"status"`
	State     OrderState `json:"state,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
