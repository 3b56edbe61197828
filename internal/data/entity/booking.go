package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsTerminal reports whether the status can never change again.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusExpired, BookingStatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	UserID        uuid.UUID     `db:"user_id"`
	ServiceID     uuid.UUID     `db:"service_id"`
	SlotID        uuid.UUID     `db:"slot_id"`
	BookingDate   time.Time     `db:"booking_date"`
	TotalAmount   float64       `db:"total_amount"`
	PaymentMethod string        `db:"payment_method"`
	BookingStatus BookingStatus `db:"booking_status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CancelledAt   *time.Time    `db:"cancelled_at"`
}

// HoldExpiresAt returns the instant a pending hold stops blocking the slot.
func (b *Booking) HoldExpiresAt(ttl time.Duration) time.Time {
	return b.CreatedAt.Add(ttl)
}

// HoldExpired reports whether a pending hold is older than the TTL.
func (b *Booking) HoldExpired(now time.Time, ttl time.Duration) bool {
	return now.After(b.HoldExpiresAt(ttl))
}

// BookingDetail is the joined view returned by listing queries: the booking
// plus the service name and slot times it references.
type BookingDetail struct {
	Booking
	ServiceName string    `db:"service_name"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
}
