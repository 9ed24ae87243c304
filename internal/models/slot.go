package models

import (
	"fmt"
	"time"
)

// SlotType is the delivery window within a day.
type SlotType string

const (
	SlotMorning   SlotType = "MORNING"   // [08:00, 12:00)
	SlotAfternoon SlotType = "AFTERNOON" // [12:00, 17:00)
)

// SlotTypes lists the per-day windows in display order.
var SlotTypes = []SlotType{SlotMorning, SlotAfternoon}

func (t SlotType) StartHour() int {
	if t == SlotAfternoon {
		return 12
	}
	return 8
}

func (t SlotType) EndHour() int {
	if t == SlotAfternoon {
		return 17
	}
	return 12
}

// Ordinal gives the within-day sort position.
func (t SlotType) Ordinal() int {
	if t == SlotAfternoon {
		return 1
	}
	return 0
}

// BookingCutoff is how long before the slot start booking closes. Uniform
// across types today, but looked up per type so they can diverge.
func (t SlotType) BookingCutoff() time.Duration {
	return 2 * time.Hour
}

func (t SlotType) Valid() bool {
	return t == SlotMorning || t == SlotAfternoon
}

func ParseSlotType(value string) (SlotType, error) {
	t := SlotType(value)
	if !t.Valid() {
		return "", fmt.Errorf("unknown slot type %q", value)
	}
	return t, nil
}

// DefaultSlotCapacity is the advisory capacity per slot.
const DefaultSlotCapacity = 10

const slotDateLayout = "2006-01-02"

// DeliverySlot is one bookable delivery window. Capacity is soft: the
// booked count keeps incrementing past it and only the display changes.
type DeliverySlot struct {
	ID          string   `bson:"_id" json:"id"`
	Date        string   `bson:"date" json:"date"` // YYYY-MM-DD, UTC
	SlotType    SlotType `bson:"slotType" json:"slotType"`
	BookedCount int      `bson:"bookedCount" json:"bookedCount"`
	Capacity    int      `bson:"capacity" json:"capacity"`
}

// SlotID derives the deterministic slot id from its date and type, so the
// same calendar slot always resolves to the same document.
func SlotID(date time.Time, slotType SlotType) string {
	return fmt.Sprintf("%s_%s", date.UTC().Format(slotDateLayout), slotType)
}

func NewDeliverySlot(date time.Time, slotType SlotType, capacity int) DeliverySlot {
	if capacity <= 0 {
		capacity = DefaultSlotCapacity
	}
	return DeliverySlot{
		ID:          SlotID(date, slotType),
		Date:        date.UTC().Format(slotDateLayout),
		SlotType:    slotType,
		BookedCount: 0,
		Capacity:    capacity,
	}
}

// StartTime is the UTC instant the slot window opens.
func (s DeliverySlot) StartTime() time.Time {
	date, err := time.ParseInLocation(slotDateLayout, s.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return date.Add(time.Duration(s.SlotType.StartHour()) * time.Hour)
}

// IsFull is informational only and never blocks a booking.
func (s DeliverySlot) IsFull() bool {
	return s.BookedCount >= s.Capacity
}

// SpotsRemaining floors at zero for display.
func (s DeliverySlot) SpotsRemaining() int {
	if remaining := s.Capacity - s.BookedCount; remaining > 0 {
		return remaining
	}
	return 0
}

// IsBookable requires now to be strictly more than the cutoff before the
// slot start. Exactly at the cutoff is not bookable.
func (s DeliverySlot) IsBookable(now time.Time) bool {
	return now.Before(s.StartTime().Add(-s.SlotType.BookingCutoff()))
}
