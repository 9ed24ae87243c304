// Package store is the single choke point for every order mutation. Both
// the shopper and deliverer call paths go through the same Store, so the
// status machine can never be bypassed.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"backend/internal/models"
)

// Store is the persistence contract shared by the shopper- and
// deliverer-facing views. The mutating order operations are atomic per
// order id: two concurrent calls on the same order never both observe the
// pre-mutation state.
type Store interface {
	PlaceOrder(ctx context.Context, order models.Order) error
	GetOrder(ctx context.Context, orderID string) (models.Order, error)
	OrdersFor(ctx context.Context, shopperID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)

	// UpdateStatus runs read-validate-write as one transaction.
	UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus, actor, reason string) (models.Order, error)
	// ClaimOrder assigns the deliverer if the order is unclaimed. Claiming
	// again by the same deliverer is a no-op; a different holder conflicts.
	ClaimOrder(ctx context.Context, orderID, delivererID string) (models.Order, error)
	// AdvanceStatus claims the order for the deliverer if unclaimed, then
	// applies the transition, all inside one transaction. If the implicit
	// claim conflicts the whole call fails and no transition is applied.
	AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus, delivererID, note string) (models.Order, error)

	// EnsureSlots upserts generated slots without resetting booked counts.
	EnsureSlots(ctx context.Context, slots []models.DeliverySlot) error
	SlotsBetween(ctx context.Context, fromDate, toDate string) ([]models.DeliverySlot, error)
	GetSlot(ctx context.Context, slotID string) (models.DeliverySlot, error)
	// BookSlot increments the booked count unconditionally; capacity is
	// advisory. Fails only when the slot id is unknown.
	BookSlot(ctx context.Context, slotID string) (models.DeliverySlot, error)
}

// OrderWatcher is the optional live read side: implementations re-emit the
// full order set on every underlying change until the context is cancelled.
type OrderWatcher interface {
	WatchOrders(ctx context.Context) (<-chan []models.Order, error)
}

// NewOrderID returns a fresh opaque order id. Random tokens avoid
// cross-client collision; ids are never sequential.
func NewOrderID() string {
	return uuid.NewString()
}

// applyTransition validates against the status machine and appends the
// audit entry. Pure; callers persist the returned order inside their own
// transaction.
func applyTransition(order models.Order, next models.OrderStatus, actor, reason string, now time.Time) (models.Order, error) {
	if !models.CanTransition(order.Status, next) {
		return models.Order{}, IllegalTransitionError{OrderID: order.ID, From: order.Status, To: next}
	}
	prior := order.Status
	history := make([]models.StatusChange, len(order.StatusHistory), len(order.StatusHistory)+1)
	copy(history, order.StatusHistory)
	order.StatusHistory = append(history, models.StatusChange{
		FromStatus: &prior,
		ToStatus:   next,
		ChangedAt:  now.UTC(),
		ChangedBy:  actor,
		Reason:     reason,
	})
	order.Status = next
	return order, nil
}

// applyClaim is the check-and-set half of the claim protocol. First claim
// wins, re-claim by the holder is a no-op, anyone else conflicts.
func applyClaim(order models.Order, delivererID string) (models.Order, error) {
	if order.DelivererID == nil {
		id := delivererID
		order.DelivererID = &id
		return order, nil
	}
	if *order.DelivererID == delivererID {
		return order, nil
	}
	return models.Order{}, ClaimConflictError{OrderID: order.ID, HeldBy: *order.DelivererID}
}
