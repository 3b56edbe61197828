package response

import "court-booking/internal/data/entity"

type SlotAvailability struct {
	SlotID    string                    `json:"slot_id"`
	StartTime string                    `json:"start_time"`
	EndTime   string                    `json:"end_time"`
	Status    entity.AvailabilityStatus `json:"status"`
}

type AvailabilityResponse struct {
	ServiceID string             `json:"service_id"`
	Date      string             `json:"date"`
	Slots     []SlotAvailability `json:"slots"`
}
