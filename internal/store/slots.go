package store

import (
	"context"
	"sort"
	"time"

	"backend/internal/models"
)

// SlotService generates the rolling bookable window and records bookings.
// Capacity is advisory: Book always succeeds for a known slot id.
type SlotService struct {
	store      Store
	capacity   int
	windowDays int
}

func NewSlotService(s Store, capacity, windowDays int) *SlotService {
	if capacity <= 0 {
		capacity = models.DefaultSlotCapacity
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &SlotService{store: s, capacity: capacity, windowDays: windowDays}
}

// GenerateWindow produces one slot per type per date for days starting at
// fromDate. Ids are deterministic, so repeated generation is idempotent.
func GenerateWindow(fromDate time.Time, days, capacity int) []models.DeliverySlot {
	day := truncateToDay(fromDate)
	slots := make([]models.DeliverySlot, 0, days*len(models.SlotTypes))
	for i := 0; i < days; i++ {
		date := day.AddDate(0, 0, i)
		for _, slotType := range models.SlotTypes {
			slots = append(slots, models.NewDeliverySlot(date, slotType, capacity))
		}
	}
	return slots
}

// AvailableSlots returns the bookable slots in the rolling window, sorted
// by date then time of day. Slots already persisted keep their booked
// counts; missing ones are created fresh.
func (s *SlotService) AvailableSlots(ctx context.Context, now time.Time) ([]models.DeliverySlot, error) {
	from := truncateToDay(now)
	window := GenerateWindow(from, s.windowDays, s.capacity)
	if err := s.store.EnsureSlots(ctx, window); err != nil {
		return nil, err
	}

	fromDate := from.Format("2006-01-02")
	toDate := from.AddDate(0, 0, s.windowDays).Format("2006-01-02")
	slots, err := s.store.SlotsBetween(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	bookable := make([]models.DeliverySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsBookable(now) {
			bookable = append(bookable, slot)
		}
	}
	sort.Slice(bookable, func(i, j int) bool {
		if bookable[i].Date != bookable[j].Date {
			return bookable[i].Date < bookable[j].Date
		}
		return bookable[i].SlotType.Ordinal() < bookable[j].SlotType.Ordinal()
	})
	return bookable, nil
}

func (s *SlotService) Get(ctx context.Context, slotID string) (models.DeliverySlot, error) {
	return s.store.GetSlot(ctx, slotID)
}

// Book records one more booking on the slot. Capacity is advisory, so
// the count can exceed it; only an unknown slot id fails.
func (s *SlotService) Book(ctx context.Context, slotID string) (models.DeliverySlot, error) {
	return s.store.BookSlot(ctx, slotID)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
