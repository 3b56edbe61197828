package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldExpiry(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute
	b := &Booking{Base: Base{CreatedAt: created}}

	assert.Equal(t, created.Add(ttl), b.HoldExpiresAt(ttl))

	// The boundary instant itself still counts as live.
	assert.False(t, b.HoldExpired(created.Add(ttl), ttl))
	assert.False(t, b.HoldExpired(created.Add(14*time.Minute), ttl))
	assert.True(t, b.HoldExpired(created.Add(ttl+time.Second), ttl))
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusExpired.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
}

func TestTimeSlotAnchoring(t *testing.T) {
	slot := &TimeSlot{
		StartTime: time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC),
		EndTime:   time.Date(0, 1, 1, 16, 0, 0, 0, time.UTC),
	}
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC), slot.StartOn(date))
	assert.Equal(t, time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC), slot.EndOn(date))
}
