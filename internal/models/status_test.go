package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		StatusPending:        {StatusConfirmed, StatusCancelled},
		StatusConfirmed:      {StatusPreparing, StatusCancelled},
		StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
		StatusReadyForPickup: {StatusOutForDelivery, StatusCancelled},
		StatusOutForDelivery: {StatusDelivered, StatusCancelled},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}

	for _, from := range allStatuses {
		allowedSet := map[OrderStatus]bool{}
		for _, to := range allowed[from] {
			allowedSet[to] = true
		}
		for _, to := range allStatuses {
			got := CanTransition(from, to)
			assert.Equal(t, allowedSet[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestSkippingAStatusIsIllegal(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusPreparing))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusConfirmed, StatusReadyForPickup))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReadyForPickup, StatusOutForDelivery} {
		assert.False(t, s.IsTerminal(), "status %s", s)
	}

	assert.Empty(t, AllowedNext(StatusDelivered))
	assert.Empty(t, AllowedNext(StatusCancelled))
}

func TestUnknownStatusIsNeverTerminalOrTransitionable(t *testing.T) {
	bogus := OrderStatus("SHIPPED")
	assert.False(t, bogus.Valid())
	assert.False(t, bogus.IsTerminal())
	assert.False(t, CanTransition(bogus, StatusDelivered))

	_, err := ParseOrderStatus("SHIPPED")
	require.Error(t, err)
}

func TestQueuePriorityOrdersByCloseness(t *testing.T) {
	assert.Less(t, StatusOutForDelivery.QueuePriority(), StatusReadyForPickup.QueuePriority())
	assert.Less(t, StatusReadyForPickup.QueuePriority(), StatusPreparing.QueuePriority())
	assert.Less(t, StatusPreparing.QueuePriority(), StatusConfirmed.QueuePriority())
	assert.Less(t, StatusConfirmed.QueuePriority(), StatusPending.QueuePriority())
}

func TestActionLabels(t *testing.T) {
	assert.Equal(t, "Confirm", StatusPending.ActionLabel())
	assert.Equal(t, "Start Preparing", StatusConfirmed.ActionLabel())
	assert.Equal(t, "Ready for Pickup", StatusPreparing.ActionLabel())
	assert.Equal(t, "Pick Up & Deliver", StatusReadyForPickup.ActionLabel())
	assert.Equal(t, "Mark Delivered", StatusOutForDelivery.ActionLabel())
	assert.Empty(t, StatusDelivered.ActionLabel())
	assert.Empty(t, StatusCancelled.ActionLabel())
}
