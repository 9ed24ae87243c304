package store

import (
	"fmt"

	"backend/internal/models"
)

// NotFoundError reports an order or slot id that does not exist.
type NotFoundError struct {
	Kind string // "order" or "slot"
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DuplicateOrderError reports a placement with an id that already exists.
// Placement never silently overwrites.
type DuplicateOrderError struct {
	OrderID string
}

func (e DuplicateOrderError) Error() string {
	return fmt.Sprintf("order %s already exists", e.OrderID)
}

// IllegalTransitionError carries both sides of a rejected transition for
// diagnostic display.
type IllegalTransitionError struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

// ClaimConflictError names the deliverer already holding the order.
type ClaimConflictError struct {
	OrderID string
	HeldBy  string
}

func (e ClaimConflictError) Error() string {
	return fmt.Sprintf("order %s already claimed by %s", e.OrderID, e.HeldBy)
}
