package models

import "fmt"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// allowedTransitions is the single source of truth for the order state flow.
// Advancing moves exactly one step forward; every non-terminal status may
// also be cancelled. DELIVERED and CANCELLED have no way out.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

var allowedTransitionSet = buildTransitionSet(allowedTransitions)

func buildTransitionSet(transitions map[OrderStatus][]OrderStatus) map[OrderStatus]map[OrderStatus]struct{} {
	set := make(map[OrderStatus]map[OrderStatus]struct{}, len(transitions))
	for from, tos := range transitions {
		next := make(map[OrderStatus]struct{}, len(tos))
		for _, to := range tos {
			next[to] = struct{}{}
		}
		set[from] = next
	}
	return set
}

// CanTransition reports whether moving from one status to the next is legal.
func CanTransition(from, to OrderStatus) bool {
	next, ok := allowedTransitionSet[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// AllowedNext returns the legal next statuses for the given status.
func AllowedNext(s OrderStatus) []OrderStatus {
	tos := allowedTransitions[s]
	out := make([]OrderStatus, len(tos))
	copy(out, tos)
	return out
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	s := OrderStatus(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", value)
	}
	return s, nil
}

// queuePriority orders the deliverer work queue: orders closest to completion
// come first, not the oldest ones.
var queuePriority = map[OrderStatus]int{
	StatusOutForDelivery: 0,
	StatusReadyForPickup: 1,
	StatusPreparing:      2,
	StatusConfirmed:      3,
	StatusPending:        4,
}

// QueuePriority returns the sort key for the active work queue, lower is
// more urgent. Terminal statuses sort last.
func (s OrderStatus) QueuePriority() int {
	if p, ok := queuePriority[s]; ok {
		return p
	}
	return len(queuePriority)
}

// ActionLabel is the label the deliverer app shows on the single forward
// action for this status. Empty for terminal statuses.
func (s OrderStatus) ActionLabel() string {
	switch s {
	case StatusPending:
		return "Confirm"
	case StatusConfirmed:
		return "Start Preparing"
	case StatusPreparing:
		return "Ready for Pickup"
	case StatusReadyForPickup:
		return "Pick Up & Deliver"
	case StatusOutForDelivery:
		return "Mark Delivered"
	default:
		return ""
	}
}
