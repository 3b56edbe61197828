package response

import "court-booking/internal/data/entity"

type ServiceResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	Status      entity.ServiceStatus `json:"status"`
}

type TimeSlotResponse struct {
	SlotID    string            `json:"slot_id"`
	ServiceID string            `json:"service_id"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Status    entity.SlotStatus `json:"status"`
}

func ServiceToResponse(svc *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		Price:       svc.Price,
		Status:      svc.Status,
	}
}

func TimeSlotToResponse(slot *entity.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		SlotID:    slot.ID.String(),
		ServiceID: slot.ServiceID.String(),
		StartTime: slot.StartTime.Format("15:04"),
		EndTime:   slot.EndTime.Format("15:04"),
		Status:    slot.Status,
	}
}
