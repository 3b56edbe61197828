package entity

import "errors"

// Booking rule violations are returned as typed errors so handlers can map
// each one to a stable HTTP signal. Only infrastructure failures propagate
// as wrapped unexpected errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrPastSlot            = errors.New("slot is in the past")
	ErrCutoffViolation     = errors.New("slot starts within the booking cutoff window")
	ErrSlotTaken           = errors.New("slot already booked for this date")
	ErrSlotReserved        = errors.New("slot is held by another pending booking")
	ErrExpired             = errors.New("booking hold expired")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrPastBooking         = errors.New("booking slot already passed")
	ErrConcurrencyConflict = errors.New("concurrent booking conflict")
)
