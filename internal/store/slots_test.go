package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func TestGenerateWindowProducesTwoSlotsPerDay(t *testing.T) {
	from := time.Date(2026, 8, 25, 13, 30, 0, 0, time.UTC)
	slots := GenerateWindow(from, 7, 10)
	require.Len(t, slots, 14)

	assert.Equal(t, "2026-08-25_MORNING", slots[0].ID)
	assert.Equal(t, "2026-08-25_AFTERNOON", slots[1].ID)
	assert.Equal(t, "2026-08-31_AFTERNOON", slots[13].ID)

	for _, slot := range slots {
		assert.Zero(t, slot.BookedCount)
		assert.Equal(t, 10, slot.Capacity)
	}

	// Same window again yields identical ids.
	again := GenerateWindow(from, 7, 10)
	for i := range slots {
		assert.Equal(t, slots[i].ID, again[i].ID)
	}
}

func TestAvailableSlotsFilterAndOrder(t *testing.T) {
	s := NewMemoryStore()
	service := NewSlotService(s, 10, 7)

	// At 09:00 today's morning slot is gone, but the afternoon slot
	// (cutoff 10:00) is still bookable, plus both slots on the next 6 days.
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	slots, err := service.AvailableSlots(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, slots, 13)

	assert.Equal(t, "2026-08-25_AFTERNOON", slots[0].ID)
	assert.Equal(t, "2026-08-26_MORNING", slots[1].ID)
	assert.Equal(t, "2026-08-26_AFTERNOON", slots[2].ID)

	// 10:00 is exactly at the afternoon cutoff: excluded.
	slots, err = service.AvailableSlots(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, slots, 12)
	assert.Equal(t, "2026-08-26_MORNING", slots[0].ID)
}

func TestAvailableSlotsKeepBookedCounts(t *testing.T) {
	s := NewMemoryStore()
	service := NewSlotService(s, 10, 7)
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	_, err := service.AvailableSlots(context.Background(), now)
	require.NoError(t, err)

	_, err = service.Book(context.Background(), "2026-08-26_MORNING")
	require.NoError(t, err)

	// Re-deriving the window must not reset the persisted count.
	slots, err := service.AvailableSlots(context.Background(), now)
	require.NoError(t, err)
	for _, slot := range slots {
		if slot.ID == "2026-08-26_MORNING" {
			assert.Equal(t, 1, slot.BookedCount)
			return
		}
	}
	t.Fatal("expected 2026-08-26_MORNING in the window")
}

func TestBookSlotUnknownID(t *testing.T) {
	s := NewMemoryStore()
	service := NewSlotService(s, 10, 7)

	_, err := service.Book(context.Background(), "2026-01-01_MORNING")
	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "slot", notFound.Kind)
}

func TestOverbookingAlwaysSucceeds(t *testing.T) {
	s := NewMemoryStore()
	service := NewSlotService(s, 10, 7)
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	_, err := service.AvailableSlots(context.Background(), now)
	require.NoError(t, err)

	var last models.DeliverySlot
	for i := 0; i < 11; i++ {
		last, err = service.Book(context.Background(), "2026-08-26_MORNING")
		require.NoError(t, err, "booking %d must succeed past capacity", i+1)
	}

	assert.Equal(t, 11, last.BookedCount)
	assert.True(t, last.IsFull())
	assert.Equal(t, 0, last.SpotsRemaining())
}

func TestConcurrentBookingsAllCount(t *testing.T) {
	s := NewMemoryStore()
	service := NewSlotService(s, 10, 7)
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	_, err := service.AvailableSlots(context.Background(), now)
	require.NoError(t, err)

	const bookings = 20
	done := make(chan error, bookings)
	for i := 0; i < bookings; i++ {
		go func() {
			_, err := service.Book(context.Background(), "2026-08-27_AFTERNOON")
			done <- err
		}()
	}
	for i := 0; i < bookings; i++ {
		require.NoError(t, <-done)
	}

	slot, err := service.Get(context.Background(), "2026-08-27_AFTERNOON")
	require.NoError(t, err)
	assert.Equal(t, bookings, slot.BookedCount, "no lost increments")
}
