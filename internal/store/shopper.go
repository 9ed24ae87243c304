package store

import (
	"context"

	"backend/internal/models"
)

// CancelActor stamps shopper-initiated cancellations in the audit trail.
const CancelActor = "shopper"

// ShopperOrders is the shopper-facing view over the shared store.
type ShopperOrders struct {
	store Store
}

func NewShopperOrders(s Store) *ShopperOrders {
	return &ShopperOrders{store: s}
}

func (v *ShopperOrders) Place(ctx context.Context, order models.Order) error {
	return v.store.PlaceOrder(ctx, order)
}

func (v *ShopperOrders) Get(ctx context.Context, orderID string) (models.Order, error) {
	return v.store.GetOrder(ctx, orderID)
}

// Orders lists the shopper's own orders, newest first.
func (v *ShopperOrders) Orders(ctx context.Context, shopperID string) ([]models.Order, error) {
	return v.store.OrdersFor(ctx, shopperID)
}

// Cancel is sugar for a CANCELLED transition by the shopper.
func (v *ShopperOrders) Cancel(ctx context.Context, orderID, reason string) (models.Order, error) {
	return v.store.UpdateStatus(ctx, orderID, models.StatusCancelled, CancelActor, reason)
}
