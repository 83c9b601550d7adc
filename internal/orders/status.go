package orders

import (
	"github.com/petitmarche/backend/pkg/enums"
)

// customerTransitions is the forward lifecycle an order moves through.
// Refunds are an administrative action and handled separately.
var customerTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:       {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
}

// CanTransition reports whether the lifecycle allows moving from one
// status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	if to == enums.OrderStatusRefunded {
		return !from.IsTerminal()
	}
	for _, next := range customerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether a customer may still cancel the order.
// Once fulfilment starts the order can only move forward.
func Cancellable(status enums.OrderStatus) bool {
	return status == enums.OrderStatusPending || status == enums.OrderStatusPaid
}
