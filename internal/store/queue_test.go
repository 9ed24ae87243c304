package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

// seedOrderAt walks an order to the wanted status through legal steps.
func seedOrderAt(t *testing.T, s Store, id string, status models.OrderStatus, createdAt time.Time) {
	t.Helper()
	placeTestOrderAt(t, s, id, createdAt)

	steps := []models.OrderStatus{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusReadyForPickup,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	}
	for _, step := range steps {
		if status == models.StatusPending {
			return
		}
		_, err := s.UpdateStatus(context.Background(), id, step, "deliverer-1", "")
		require.NoError(t, err)
		if step == status {
			return
		}
	}
	if status == models.StatusCancelled {
		t.Fatalf("seedOrderAt does not support CANCELLED, cancel explicitly")
	}
}

func TestActiveOrdersSortByUrgencyNotAge(t *testing.T) {
	s := NewMemoryStore()
	queue := NewDelivererQueue(s)
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	// Oldest order is the least advanced; creation order must not win.
	seedOrderAt(t, s, "o-pending", models.StatusPending, base)
	seedOrderAt(t, s, "o-out", models.StatusOutForDelivery, base.Add(2*time.Hour))
	seedOrderAt(t, s, "o-prep", models.StatusPreparing, base.Add(time.Hour))

	active, err := queue.ActiveOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "o-out", active[0].ID)
	assert.Equal(t, "o-prep", active[1].ID)
	assert.Equal(t, "o-pending", active[2].ID)
}

func TestActiveOrdersTieBreakOnCreationTime(t *testing.T) {
	s := NewMemoryStore()
	queue := NewDelivererQueue(s)
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	seedOrderAt(t, s, "later", models.StatusPending, base.Add(time.Hour))
	seedOrderAt(t, s, "earlier", models.StatusPending, base)

	active, err := queue.ActiveOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "earlier", active[0].ID, "older order first within the same status")
	assert.Equal(t, "later", active[1].ID)
}

func TestActiveOrdersExcludeTerminal(t *testing.T) {
	s := NewMemoryStore()
	queue := NewDelivererQueue(s)
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	seedOrderAt(t, s, "live", models.StatusConfirmed, base)
	seedOrderAt(t, s, "done", models.StatusDelivered, base.Add(time.Minute))
	placeTestOrderAt(t, s, "gone", base.Add(2*time.Minute))
	_, err := NewShopperOrders(s).Cancel(context.Background(), "gone", "mind changed")
	require.NoError(t, err)

	active, err := queue.ActiveOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "live", active[0].ID)
}

func TestCompletedOrdersNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	queue := NewDelivererQueue(s)
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	seedOrderAt(t, s, "first-done", models.StatusDelivered, base)
	seedOrderAt(t, s, "second-done", models.StatusDelivered, base.Add(time.Hour))
	seedOrderAt(t, s, "still-open", models.StatusPreparing, base.Add(2*time.Hour))

	completed, err := queue.CompletedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, "second-done", completed[0].ID)
	assert.Equal(t, "first-done", completed[1].ID)
}

func TestQueueClaimAndAdvanceDelegate(t *testing.T) {
	s := NewMemoryStore()
	queue := NewDelivererQueue(s)
	placeTestOrder(t, s, "q-1")

	order, err := queue.Claim(context.Background(), "q-1", "deliverer-a")
	require.NoError(t, err)
	assert.Equal(t, "deliverer-a", *order.DelivererID)

	order, err = queue.Advance(context.Background(), "q-1", models.StatusConfirmed, "deliverer-a", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
}
