// Package notify is the one-way sink for order lifecycle events. The
// consumer side (push delivery to devices) lives outside this service.
package notify

import (
	"context"
	"fmt"
	"log"

	"backend/internal/models"
)

type EventType string

const (
	EventNewOrder     EventType = "NEW_ORDER"
	EventStatusUpdate EventType = "ORDER_STATUS_UPDATE"
)

// Event is the payload handed to the notification channel.
type Event struct {
	Type    EventType `json:"type"`
	OrderID string    `json:"orderId"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
}

type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NewOrderEvent announces a freshly placed order to the deliverer side.
func NewOrderEvent(order models.Order) Event {
	return Event{
		Type:    EventNewOrder,
		OrderID: order.ID,
		Title:   "New order",
		Body:    fmt.Sprintf("Order %s placed with %d items", order.ID, len(order.Items)),
	}
}

// StatusUpdateEvent announces a transition to the shopper side.
func StatusUpdateEvent(order models.Order) Event {
	return Event{
		Type:    EventStatusUpdate,
		OrderID: order.ID,
		Title:   "Order update",
		Body:    fmt.Sprintf("Order %s is now %s", order.ID, order.Status),
	}
}

// LogSink is the fallback sink when no broker is configured.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, event Event) error {
	log.Printf("[NOTIFY] [INFO] %s order=%s: %s", event.Type, event.OrderID, event.Body)
	return nil
}

func (LogSink) Close() {}
