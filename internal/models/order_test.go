package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func testItem(t *testing.T) OrderItem {
	t.Helper()
	item, err := NewOrderItem("prod-1", "Milk", UnitPiece, MustDecimal("2.50"), MustDecimal("2"))
	require.NoError(t, err)
	return item
}

func TestNewOrderItemValidation(t *testing.T) {
	_, err := NewOrderItem("", "Milk", UnitPiece, MustDecimal("1"), MustDecimal("1"))
	assert.Error(t, err, "empty product id")

	_, err = NewOrderItem("p", "Milk", UnitPiece, MustDecimal("-0.01"), MustDecimal("1"))
	assert.Error(t, err, "negative price")

	_, err = NewOrderItem("p", "Milk", UnitPiece, MustDecimal("1"), MustDecimal("0"))
	assert.Error(t, err, "zero quantity")

	_, err = NewOrderItem("p", "Milk", UnitPiece, MustDecimal("1"), MustDecimal("1.5"))
	assert.Error(t, err, "fractional piece quantity")

	_, err = NewOrderItem("p", "Flour", UnitWeight, MustDecimal("1.20"), MustDecimal("1.5"))
	assert.NoError(t, err, "fractional weight quantity is fine")

	_, err = NewOrderItem("p", "Sample", UnitPiece, MustDecimal("0"), MustDecimal("1"))
	assert.NoError(t, err, "zero price is allowed")
}

func TestSubtotalRoundsHalfUp(t *testing.T) {
	item, err := NewOrderItem("p", "Cheese", UnitWeight, MustDecimal("3.33"), MustDecimal("0.5"))
	require.NoError(t, err)
	// 3.33 * 0.5 = 1.665 -> 1.67 half up
	assert.Equal(t, "1.67", item.Subtotal().String())
}

func TestTotalPriceSumsRoundedSubtotals(t *testing.T) {
	a, err := NewOrderItem("a", "Cheese", UnitWeight, MustDecimal("3.33"), MustDecimal("0.5"))
	require.NoError(t, err)
	b, err := NewOrderItem("b", "Milk", UnitPiece, MustDecimal("2.50"), MustDecimal("2"))
	require.NoError(t, err)

	order, err := NewOrder("o1", "shopper-1", []OrderItem{a, b}, OrderTypeImmediate, "12 Main St", nil, time.Now())
	require.NoError(t, err)

	// 1.67 + 5.00
	assert.Equal(t, "6.67", order.TotalPrice().String())
}

func TestNewOrderValidation(t *testing.T) {
	now := time.Now()
	item := testItem(t)
	scheduled := now.Add(24 * time.Hour)

	_, err := NewOrder("o1", "s1", nil, OrderTypeImmediate, "12 Main St", nil, now)
	assert.Error(t, err, "empty items")

	_, err = NewOrder("o1", "s1", []OrderItem{item}, OrderTypeImmediate, "   ", nil, now)
	assert.Error(t, err, "blank address")

	_, err = NewOrder("o1", "s1", []OrderItem{item}, OrderTypeScheduled, "12 Main St", nil, now)
	assert.Error(t, err, "scheduled without scheduledFor")

	_, err = NewOrder("o1", "s1", []OrderItem{item}, OrderTypeImmediate, "12 Main St", &scheduled, now)
	assert.Error(t, err, "immediate with scheduledFor")

	order, err := NewOrder("o1", "s1", []OrderItem{item}, OrderTypeScheduled, "12 Main St", &scheduled, now)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Nil(t, order.DelivererID)
	require.Len(t, order.StatusHistory, 1)
	assert.Nil(t, order.StatusHistory[0].FromStatus)
	assert.Equal(t, StatusPending, order.StatusHistory[0].ToStatus)
	assert.Equal(t, SystemActor, order.StatusHistory[0].ChangedBy)
}

func TestOrderBSONRoundTrip(t *testing.T) {
	created := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	scheduled := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)

	weighted, err := NewOrderItem("p2", "Apples", UnitWeight, MustDecimal("1.99"), MustDecimal("0.75"))
	require.NoError(t, err)

	order, err := NewOrder("order-rt", "shopper-9", []OrderItem{testItem(t), weighted}, OrderTypeScheduled, "4 Elm Rd", &scheduled, created)
	require.NoError(t, err)

	raw, err := bson.Marshal(order)
	require.NoError(t, err)

	var decoded Order
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.Equal(t, order.ID, decoded.ID)
	assert.Equal(t, order.ShopperID, decoded.ShopperID)
	assert.Nil(t, decoded.DelivererID)
	assert.Equal(t, order.Status, decoded.Status)
	assert.Equal(t, order.OrderType, decoded.OrderType)
	assert.Equal(t, order.DeliveryAddress, decoded.DeliveryAddress)
	assert.True(t, decoded.CreatedAt.Equal(created))
	require.NotNil(t, decoded.ScheduledFor)
	assert.True(t, decoded.ScheduledFor.Equal(scheduled))

	require.Len(t, decoded.Items, 2)
	for i, item := range decoded.Items {
		assert.Equal(t, order.Items[i].ProductID, item.ProductID)
		assert.Equal(t, order.Items[i].ProductName, item.ProductName)
		assert.Equal(t, order.Items[i].ProductUnit, item.ProductUnit)
		assert.True(t, item.PriceAtPurchase.Equal(order.Items[i].PriceAtPurchase), "price round trip")
		assert.True(t, item.Quantity.Equal(order.Items[i].Quantity), "quantity round trip")
	}

	require.Len(t, decoded.StatusHistory, 1)
	assert.Nil(t, decoded.StatusHistory[0].FromStatus)
	assert.Equal(t, StatusPending, decoded.StatusHistory[0].ToStatus)
	assert.Equal(t, SystemActor, decoded.StatusHistory[0].ChangedBy)
	assert.True(t, decoded.StatusHistory[0].ChangedAt.Equal(created))

	assert.Equal(t, "6.49", decoded.TotalPrice().String())
}

func TestDecimalStoredAsStringInBSON(t *testing.T) {
	item := testItem(t)
	raw, err := bson.Marshal(item)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "2.5", doc["priceAtPurchase"])
	assert.Equal(t, "2", doc["quantity"])
}
