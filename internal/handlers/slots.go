package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
	"backend/internal/store"
)

// slotResponse adds the derived display fields the apps show next to each
// window. Fullness never blocks booking.
type slotResponse struct {
	models.DeliverySlot
	StartTime      time.Time `json:"startTime"`
	IsFull         bool      `json:"isFull"`
	SpotsRemaining int       `json:"spotsRemaining"`
}

func toSlotResponse(slot models.DeliverySlot) slotResponse {
	return slotResponse{
		DeliverySlot:   slot,
		StartTime:      slot.StartTime(),
		IsFull:         slot.IsFull(),
		SpotsRemaining: slot.SpotsRemaining(),
	}
}

// GetSlots returns the bookable windows for the rolling week.
func GetSlots(slots *store.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /slots"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		available, err := slots.AvailableSlots(ctx, time.Now())
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		out := make([]slotResponse, 0, len(available))
		for _, slot := range available {
			out = append(out, toSlotResponse(slot))
		}
		c.JSON(http.StatusOK, out)
	}
}

// BookSlot records one more booking. A full slot still accepts bookings.
func BookSlot(slots *store.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /slots/:id/book"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		slot, err := slots.Book(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		log.Printf("[SLOT] [INFO] slot %s booked, count now %d", slot.ID, slot.BookedCount)
		c.JSON(http.StatusOK, toSlotResponse(slot))
	}
}
