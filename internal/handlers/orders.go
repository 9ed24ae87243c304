package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
	"backend/internal/notify"
	"backend/internal/store"
)

/* =========================
   REQUEST DTOs
========================= */

type placeOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	Items           []placeOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	OrderType       string                  `json:"orderType" binding:"required"`
	DeliveryAddress string                  `json:"deliveryAddress" binding:"required"`
	SlotID          string                  `json:"slotId"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type orderResponse struct {
	models.Order
	TotalPrice models.Decimal `json:"totalPrice"`
}

func toOrderResponse(order models.Order) orderResponse {
	return orderResponse{Order: order, TotalPrice: order.TotalPrice()}
}

func toOrderResponses(orders []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}

/* =========================
   PLACE ORDER
========================= */

// PlaceOrder checks out the shopper's cart. Scheduled orders must name a
// still-bookable slot; the slot booking itself is advisory and never fails
// the checkout once the order is persisted.
func PlaceOrder(db *mongo.Database, orders *store.ShopperOrders, slots *store.SlotService, notifier notify.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		shopperID := accountID(c)
		now := time.Now()

		orderType := models.OrderType(strings.ToUpper(strings.TrimSpace(req.OrderType)))
		if orderType != models.OrderTypeImmediate && orderType != models.OrderTypeScheduled {
			respondWithError(c, http.StatusBadRequest, route, "orderType must be IMMEDIATE or SCHEDULED")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var scheduledFor *time.Time
		var bookedSlotID string
		if orderType == models.OrderTypeScheduled {
			if strings.TrimSpace(req.SlotID) == "" {
				respondWithError(c, http.StatusBadRequest, route, "scheduled order requires slotId")
				return
			}
			slot, err := slots.Get(ctx, req.SlotID)
			if err != nil {
				respondStoreError(c, route, err)
				return
			}
			if !slot.IsBookable(now) {
				respondWithError(c, http.StatusConflict, route, "slot is no longer bookable")
				return
			}
			start := slot.StartTime()
			scheduledFor = &start
			bookedSlotID = slot.ID
		}

		items, err := buildOrderItems(ctx, db, req.Items)
		if err != nil {
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID,
				})
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		order, err := models.NewOrder(store.NewOrderID(), shopperID, items, orderType, req.DeliveryAddress, scheduledFor, now)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if err := orders.Place(ctx, order); err != nil {
			respondStoreError(c, route, err)
			return
		}

		// Soft capacity: a failed booking is logged, never unwound.
		if bookedSlotID != "" {
			if _, err := slots.Book(ctx, bookedSlotID); err != nil {
				log.Printf("[ORDER] [WARN] slot booking failed for %s: %v", bookedSlotID, err)
			}
		}

		if err := notifier.Publish(ctx, notify.NewOrderEvent(order)); err != nil {
			log.Println("[ORDER] [WARN] new order notification failed:", err)
		}

		log.Println("[ORDER] [INFO] order placed:", order.ID)
		c.JSON(http.StatusCreated, gin.H{
			"orderId":    order.ID,
			"status":     order.Status,
			"totalPrice": order.TotalPrice(),
		})
	}
}

// buildOrderItems snapshots the catalog name and price per line inside the
// placement flow, so later catalog edits never change placed orders.
func buildOrderItems(ctx context.Context, db *mongo.Database, reqs []placeOrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, itemReq := range reqs {
		productID, err := primitive.ObjectIDFromHex(itemReq.ProductID)
		if err != nil {
			return nil, errors.New("invalid productId")
		}

		quantity, err := models.NewDecimal(itemReq.Quantity)
		if err != nil {
			return nil, errors.New("invalid quantity")
		}

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":      productID,
			"isActive": bson.M{"$ne": false},
		}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productNotFoundError{ProductID: itemReq.ProductID}
		}
		if err != nil {
			return nil, err
		}

		item, err := models.NewOrderItem(product.ID.Hex(), product.Name, product.Unit, product.Price, quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

/* =========================
   SHOPPER READS & CANCEL
========================= */

func GetMyOrders(orders *store.ShopperOrders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.Orders(ctx, accountID(c))
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponses(list))
	}
}

func GetOrder(orders *store.ShopperOrders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.Get(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		if order.ShopperID != accountID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func CancelOrder(orders *store.ShopperOrders, notifier notify.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"
		defer handlePanic(c, route)

		// Reason is optional, an empty or missing body is fine.
		var req cancelOrderRequest
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orderID := c.Param("id")
		current, err := orders.Get(ctx, orderID)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		if current.ShopperID != accountID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		order, err := orders.Cancel(ctx, orderID, req.Reason)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		if err := notifier.Publish(ctx, notify.StatusUpdateEvent(order)); err != nil {
			log.Println("[ORDER] [WARN] cancel notification failed:", err)
		}

		log.Println("[ORDER] [INFO] order cancelled:", order.ID)
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}
