package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
	"backend/internal/notify"
	"backend/internal/store"
)

type advanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// queueEntry decorates an order with the label for its single forward
// action, so the deliverer app renders the button without knowing the
// transition table.
type queueEntry struct {
	models.Order
	TotalPrice  models.Decimal `json:"totalPrice"`
	ActionLabel string         `json:"actionLabel,omitempty"`
}

func toQueueEntries(orders []models.Order) []queueEntry {
	entries := make([]queueEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, queueEntry{
			Order:       order,
			TotalPrice:  order.TotalPrice(),
			ActionLabel: order.Status.ActionLabel(),
		})
	}
	return entries
}

// ActiveQueue lists non-terminal orders, most urgent first.
func ActiveQueue(queue *store.DelivererQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /queue/active"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := queue.ActiveOrders(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, toQueueEntries(orders))
	}
}

// CompletedQueue lists delivered and cancelled orders, newest first.
func CompletedQueue(queue *store.DelivererQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /queue/completed"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := queue.CompletedOrders(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, toQueueEntries(orders))
	}
}

// ClaimOrder assigns the order to the calling deliverer. First claim wins.
func ClaimOrder(queue *store.DelivererQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /queue/:id/claim"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := queue.Claim(ctx, c.Param("id"), accountID(c))
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		log.Printf("[QUEUE] [INFO] order %s claimed by %s", order.ID, accountID(c))
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// AdvanceOrder moves the order one status forward, claiming it first if it
// is unclaimed. The claim and the transition commit together or not at all.
func AdvanceOrder(queue *store.DelivererQueue, notifier notify.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /queue/:id/advance"
		defer handlePanic(c, route)

		var req advanceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		next, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := queue.Advance(ctx, c.Param("id"), next, accountID(c), req.Note)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		if err := notifier.Publish(ctx, notify.StatusUpdateEvent(order)); err != nil {
			log.Println("[QUEUE] [WARN] status notification failed:", err)
		}

		log.Printf("[QUEUE] [INFO] order %s advanced to %s by %s", order.ID, order.Status, accountID(c))
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}
