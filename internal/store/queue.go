package store

import (
	"context"
	"sort"

	"backend/internal/models"
)

// DelivererQueue is the deliverer-facing view over the shared store: sorted
// work queues plus the claim protocol.
type DelivererQueue struct {
	store Store
}

func NewDelivererQueue(s Store) *DelivererQueue {
	return &DelivererQueue{store: s}
}

// ActiveOrders returns every non-terminal order, most urgent first: orders
// closest to completion lead, older orders break ties within a status.
func (q *DelivererQueue) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	all, err := q.store.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.Order, 0, len(all))
	for _, order := range all {
		if !order.Status.IsTerminal() {
			active = append(active, order)
		}
	}
	SortActive(active)
	return active, nil
}

// CompletedOrders returns delivered and cancelled orders, newest first.
func (q *DelivererQueue) CompletedOrders(ctx context.Context) ([]models.Order, error) {
	all, err := q.store.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	completed := make([]models.Order, 0, len(all))
	for _, order := range all {
		if order.Status.IsTerminal() {
			completed = append(completed, order)
		}
	}
	sortByCreatedDesc(completed)
	return completed, nil
}

func (q *DelivererQueue) Claim(ctx context.Context, orderID, delivererID string) (models.Order, error) {
	return q.store.ClaimOrder(ctx, orderID, delivererID)
}

// Advance moves a claimed (or implicitly claimed) order one status forward.
func (q *DelivererQueue) Advance(ctx context.Context, orderID string, next models.OrderStatus, delivererID, note string) (models.Order, error) {
	return q.store.AdvanceStatus(ctx, orderID, next, delivererID, note)
}

// SortActive orders the queue by status urgency, then creation time, then
// id so the result is stable across re-derivations.
func SortActive(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		pi, pj := orders[i].Status.QueuePriority(), orders[j].Status.QueuePriority()
		if pi != pj {
			return pi < pj
		}
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}

func sortByCreatedDesc(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
