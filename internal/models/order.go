package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OrderType distinguishes immediate checkout from scheduled delivery.
type OrderType string

const (
	OrderTypeImmediate OrderType = "IMMEDIATE"
	OrderTypeScheduled OrderType = "SCHEDULED"
)

// ProductUnit is how a product is measured.
type ProductUnit string

const (
	UnitPiece  ProductUnit = "PIECE"
	UnitWeight ProductUnit = "WEIGHT"
)

// OrderItem is a single purchased line. Name and price are snapshots taken
// at purchase time and never follow later catalog changes.
type OrderItem struct {
	ProductID       string      `bson:"productId" json:"productId"`
	ProductName     string      `bson:"productName" json:"productName"`
	ProductUnit     ProductUnit `bson:"productUnit" json:"productUnit"`
	PriceAtPurchase Decimal     `bson:"priceAtPurchase" json:"priceAtPurchase"`
	Quantity        Decimal     `bson:"quantity" json:"quantity"`
}

// NewOrderItem validates the line invariants: price must not be negative,
// quantity must be positive and whole for piece goods.
func NewOrderItem(productID, productName string, unit ProductUnit, price, quantity Decimal) (OrderItem, error) {
	if strings.TrimSpace(productID) == "" {
		return OrderItem{}, errors.New("order item requires a productId")
	}
	if price.IsNegative() {
		return OrderItem{}, fmt.Errorf("price must not be negative, got %s", price)
	}
	if !quantity.IsPositive() {
		return OrderItem{}, fmt.Errorf("quantity must be greater than zero, got %s", quantity)
	}
	if unit == UnitPiece && !quantity.IsWhole() {
		return OrderItem{}, fmt.Errorf("piece quantity must be a whole number, got %s", quantity)
	}
	return OrderItem{
		ProductID:       productID,
		ProductName:     strings.TrimSpace(productName),
		ProductUnit:     unit,
		PriceAtPurchase: price,
		Quantity:        quantity,
	}, nil
}

// Subtotal is price x quantity rounded to 2 places, half up.
func (i OrderItem) Subtotal() Decimal {
	return i.PriceAtPurchase.Mul(i.Quantity).Round2()
}

// StatusChange is one entry in an order's audit trail. FromStatus is nil
// only on the entry recording initial placement.
type StatusChange struct {
	FromStatus *OrderStatus `bson:"fromStatus" json:"fromStatus"`
	ToStatus   OrderStatus  `bson:"toStatus" json:"toStatus"`
	ChangedAt  time.Time    `bson:"changedAt" json:"changedAt"`
	ChangedBy  string       `bson:"changedBy" json:"changedBy"`
	Reason     string       `bson:"reason,omitempty" json:"reason,omitempty"`
}

// SystemActor stamps history entries not made by a user.
const SystemActor = "system"

// Order is the persisted order document. It is never deleted; delivery and
// cancellation are terminal statuses, not removals.
type Order struct {
	ID              string         `bson:"_id" json:"id"`
	ShopperID       string         `bson:"shopperId" json:"shopperId"`
	DelivererID     *string        `bson:"delivererId" json:"delivererId"`
	Items           []OrderItem    `bson:"items" json:"items"`
	Status          OrderStatus    `bson:"status" json:"status"`
	OrderType       OrderType      `bson:"orderType" json:"orderType"`
	DeliveryAddress string         `bson:"deliveryAddress" json:"deliveryAddress"`
	ScheduledFor    *time.Time     `bson:"scheduledFor" json:"scheduledFor"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	StatusHistory   []StatusChange `bson:"statusHistory" json:"statusHistory"`
}

// NewOrder builds a PENDING order with its initial placement history entry.
// Construction fails on malformed input; an invalid order must never reach
// the store.
func NewOrder(id, shopperID string, items []OrderItem, orderType OrderType, deliveryAddress string, scheduledFor *time.Time, now time.Time) (Order, error) {
	if strings.TrimSpace(id) == "" {
		return Order{}, errors.New("order requires an id")
	}
	if strings.TrimSpace(shopperID) == "" {
		return Order{}, errors.New("order requires a shopperId")
	}
	if len(items) == 0 {
		return Order{}, errors.New("order requires at least one item")
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		return Order{}, errors.New("order requires a delivery address")
	}
	switch orderType {
	case OrderTypeImmediate:
		if scheduledFor != nil {
			return Order{}, errors.New("immediate order must not carry scheduledFor")
		}
	case OrderTypeScheduled:
		if scheduledFor == nil {
			return Order{}, errors.New("scheduled order requires scheduledFor")
		}
	default:
		return Order{}, fmt.Errorf("unknown order type %q", orderType)
	}

	created := now.UTC()
	return Order{
		ID:              id,
		ShopperID:       shopperID,
		DelivererID:     nil,
		Items:           items,
		Status:          StatusPending,
		OrderType:       orderType,
		DeliveryAddress: strings.TrimSpace(deliveryAddress),
		ScheduledFor:    scheduledFor,
		CreatedAt:       created,
		StatusHistory: []StatusChange{{
			FromStatus: nil,
			ToStatus:   StatusPending,
			ChangedAt:  created,
			ChangedBy:  SystemActor,
		}},
	}, nil
}

// TotalPrice sums the rounded line subtotals, rounded to 2 places half up.
func (o Order) TotalPrice() Decimal {
	total := DecimalFromInt(0)
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round2()
}

// ClaimedBy reports whether the order is claimed by the given deliverer.
func (o Order) ClaimedBy(delivererID string) bool {
	return o.DelivererID != nil && *o.DelivererID == delivererID
}
