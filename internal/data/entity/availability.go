package entity

// AvailabilityStatus is the live status of a slot on a specific date.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityBooked      AvailabilityStatus = "booked"
	AvailabilityReserved    AvailabilityStatus = "reserved"
	AvailabilityPast        AvailabilityStatus = "past"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)
