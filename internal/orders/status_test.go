package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petitmarche/backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(enums.OrderStatusPending, enums.OrderStatusPaid))
	assert.True(t, CanTransition(enums.OrderStatusPending, enums.OrderStatusCancelled))
	assert.True(t, CanTransition(enums.OrderStatusPaid, enums.OrderStatusProcessing))
	assert.True(t, CanTransition(enums.OrderStatusProcessing, enums.OrderStatusShipped))
	assert.True(t, CanTransition(enums.OrderStatusShipped, enums.OrderStatusDelivered))

	assert.False(t, CanTransition(enums.OrderStatusPending, enums.OrderStatusShipped))
	assert.False(t, CanTransition(enums.OrderStatusShipped, enums.OrderStatusCancelled))
	assert.False(t, CanTransition(enums.OrderStatusDelivered, enums.OrderStatusPending))
	assert.False(t, CanTransition(enums.OrderStatusCancelled, enums.OrderStatusPaid))
}

func TestRefundReachableFromNonTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(enums.OrderStatusPaid, enums.OrderStatusRefunded))
	assert.True(t, CanTransition(enums.OrderStatusShipped, enums.OrderStatusRefunded))
	assert.False(t, CanTransition(enums.OrderStatusCancelled, enums.OrderStatusRefunded))
	assert.False(t, CanTransition(enums.OrderStatusRefunded, enums.OrderStatusRefunded))
}

func TestCancellable(t *testing.T) {
	t.Parallel()

	assert.True(t, Cancellable(enums.OrderStatusPending))
	assert.True(t, Cancellable(enums.OrderStatusPaid))
	assert.False(t, Cancellable(enums.OrderStatusProcessing))
	assert.False(t, Cancellable(enums.OrderStatusShipped))
	assert.False(t, Cancellable(enums.OrderStatusDelivered))
	assert.False(t, Cancellable(enums.OrderStatusCancelled))
}
