package usecase

import (
	"context"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotStatus(t *testing.T, result *response.AvailabilityResponse, slotID uuid.UUID) entity.AvailabilityStatus {
	t.Helper()
	for _, s := range result.Slots {
		if s.SlotID == slotID.String() {
			return s.Status
		}
	}
	t.Fatalf("slot %s not in availability response", slotID)
	return ""
}

func TestResolveAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("open future slots are available, disabled ones are not", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		require.Len(t, result.Slots, 3)
		assert.Equal(t, tomorrow, result.Date)

		assert.Equal(t, entity.AvailabilityAvailable, slotStatus(t, result, f.slotID))
		assert.Equal(t, entity.AvailabilityAvailable, slotStatus(t, result, f.eveningSlotID))
		assert.Equal(t, entity.AvailabilityUnavailable, slotStatus(t, result, f.disabledSlotID))
	})

	t.Run("slots come back sorted by start time", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, "14:00", result.Slots[0].StartTime)
		assert.Equal(t, "18:00", result.Slots[1].StartTime)
		assert.Equal(t, "20:00", result.Slots[2].StartTime)
	})

	t.Run("a confirmed booking marks the slot booked", func(t *testing.T) {
		f := newFixture(t)
		f.confirmedBooking(t, f.userID)

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityBooked, slotStatus(t, result, f.slotID))
	})

	t.Run("a live hold marks the slot reserved", func(t *testing.T) {
		f := newFixture(t)
		f.hold(t, f.userID, f.slotID, tomorrow)

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityReserved, slotStatus(t, result, f.slotID))
	})

	t.Run("an unswept stale hold reads as vacant", func(t *testing.T) {
		f := newFixture(t)
		f.hold(t, f.userID, f.slotID, tomorrow)

		f.clk.Advance(16 * time.Minute)

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityAvailable, slotStatus(t, result, f.slotID))
	})

	t.Run("today's slots inside the cutoff read as past", func(t *testing.T) {
		// 13:30 today: the 14:00 slot is within the hour, the 18:00 one is not.
		f := newFixtureAt(t, time.Date(2026, 3, 11, 13, 30, 0, 0, time.UTC))

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityPast, slotStatus(t, result, f.slotID))
		assert.Equal(t, entity.AvailabilityAvailable, slotStatus(t, result, f.eveningSlotID))
	})

	t.Run("a booked slot stays booked even after it started", func(t *testing.T) {
		f := newFixture(t)
		f.confirmedBooking(t, f.userID)

		f.clk.Advance(29*time.Hour + 30*time.Minute) // 14:30 on the booking day

		result, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityBooked, slotStatus(t, result, f.slotID))
	})

	t.Run("rejects a past date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), "2026-03-09")
		assert.ErrorIs(t, err, entity.ErrPastSlot)
	})

	t.Run("rejects an unknown service", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.availability.ResolveAvailability(ctx, uuid.NewString(), tomorrow)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("rejects an inactive service", func(t *testing.T) {
		f := newFixture(t)
		f.store.services[f.serviceID].Status = entity.ServiceStatusInactive

		_, err := f.availability.ResolveAvailability(ctx, f.serviceID.String(), tomorrow)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}
