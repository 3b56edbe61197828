package entity

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusDisabled  SlotStatus = "disabled"
)

// TimeSlot is a recurring time-of-day interval bookable per calendar date.
// StartTime/EndTime carry only the time of day; the date comes from the booking.
type TimeSlot struct {
	ID        uuid.UUID  `db:"slot_id"`
	ServiceID uuid.UUID  `db:"service_id"`
	StartTime time.Time  `db:"start_time"`
	EndTime   time.Time  `db:"end_time"`
	Status    SlotStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
}

// StartOn anchors the slot's start time to a calendar date.
func (t *TimeSlot) StartOn(date time.Time) time.Time {
	return atTimeOfDay(date, t.StartTime)
}

// EndOn anchors the slot's end time to a calendar date.
func (t *TimeSlot) EndOn(date time.Time) time.Time {
	return atTimeOfDay(date, t.EndTime)
}

func atTimeOfDay(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC)
}
