package store

import (
	"context"
	"sync"
	"time"

	"backend/internal/models"
)

// MemoryStore is the in-process Store used by tests and local development.
// One registry backs both role-scoped views, so a shopper mutation is
// immediately visible to the deliverer queue. A single mutex makes every
// mutation linearizable, matching the transaction guarantee of the mongo
// implementation.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]models.Order
	slots  map[string]models.DeliverySlot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]models.Order),
		slots:  make(map[string]models.DeliverySlot),
	}
}

func copyOrder(order models.Order) models.Order {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items

	history := make([]models.StatusChange, len(order.StatusHistory))
	copy(history, order.StatusHistory)
	order.StatusHistory = history

	if order.DelivererID != nil {
		id := *order.DelivererID
		order.DelivererID = &id
	}
	if order.ScheduledFor != nil {
		at := *order.ScheduledFor
		order.ScheduledFor = &at
	}
	return order
}

func (s *MemoryStore) PlaceOrder(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return DuplicateOrderError{OrderID: order.ID}
	}
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, NotFoundError{Kind: "order", ID: orderID}
	}
	return copyOrder(order), nil
}

func (s *MemoryStore) OrdersFor(_ context.Context, shopperID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []models.Order{}
	for _, order := range s.orders {
		if order.ShopperID == shopperID {
			orders = append(orders, copyOrder(order))
		}
	}
	sortByCreatedDesc(orders)
	return orders, nil
}

func (s *MemoryStore) AllOrders(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, copyOrder(order))
	}
	return orders, nil
}

func (s *MemoryStore) mutateOrder(orderID string, mutate func(models.Order) (models.Order, error)) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, NotFoundError{Kind: "order", ID: orderID}
	}
	updated, err := mutate(copyOrder(order))
	if err != nil {
		return models.Order{}, err
	}
	s.orders[orderID] = updated
	return copyOrder(updated), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, orderID string, next models.OrderStatus, actor, reason string) (models.Order, error) {
	return s.mutateOrder(orderID, func(order models.Order) (models.Order, error) {
		return applyTransition(order, next, actor, reason, time.Now())
	})
}

func (s *MemoryStore) ClaimOrder(_ context.Context, orderID, delivererID string) (models.Order, error) {
	return s.mutateOrder(orderID, func(order models.Order) (models.Order, error) {
		return applyClaim(order, delivererID)
	})
}

func (s *MemoryStore) AdvanceStatus(_ context.Context, orderID string, next models.OrderStatus, delivererID, note string) (models.Order, error) {
	return s.mutateOrder(orderID, func(order models.Order) (models.Order, error) {
		claimed, err := applyClaim(order, delivererID)
		if err != nil {
			return models.Order{}, err
		}
		return applyTransition(claimed, next, delivererID, note, time.Now())
	})
}

func (s *MemoryStore) EnsureSlots(_ context.Context, slots []models.DeliverySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range slots {
		if _, exists := s.slots[slot.ID]; !exists {
			s.slots[slot.ID] = slot
		}
	}
	return nil
}

func (s *MemoryStore) SlotsBetween(_ context.Context, fromDate, toDate string) ([]models.DeliverySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := []models.DeliverySlot{}
	for _, slot := range s.slots {
		if slot.Date >= fromDate && slot.Date < toDate {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (s *MemoryStore) GetSlot(_ context.Context, slotID string) (models.DeliverySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return models.DeliverySlot{}, NotFoundError{Kind: "slot", ID: slotID}
	}
	return slot, nil
}

func (s *MemoryStore) BookSlot(_ context.Context, slotID string) (models.DeliverySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return models.DeliverySlot{}, NotFoundError{Kind: "slot", ID: slotID}
	}
	slot.BookedCount++
	s.slots[slotID] = slot
	return slot, nil
}
