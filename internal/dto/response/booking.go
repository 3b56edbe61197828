package response

import (
	"time"

	"court-booking/internal/data/entity"
)

// HoldResponse is returned when a pending hold is created.
type HoldResponse struct {
	BookingID   string    `json:"booking_id"`
	OrderID     string    `json:"order_id"`
	TotalAmount float64   `json:"total_amount"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ConfirmResponse struct {
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
}

type CancelResponse struct {
	BookingID    string  `json:"booking_id"`
	RefundAmount float64 `json:"refund_amount"`
	RefundPolicy string  `json:"refund_policy"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"order_id"`
	UserID        string               `json:"user_id"`
	ServiceID     string               `json:"service_id"`
	ServiceName   string               `json:"service_name,omitempty"`
	SlotID        string               `json:"slot_id"`
	BookingDate   string               `json:"booking_date"`
	StartTime     string               `json:"start_time,omitempty"`
	EndTime       string               `json:"end_time,omitempty"`
	TotalAmount   float64              `json:"total_amount"`
	PaymentMethod string               `json:"payment_method"`
	BookingStatus entity.BookingStatus `json:"booking_status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
}

// BookingDetailToResponse converts a joined ledger row to its API shape.
func BookingDetailToResponse(d *entity.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:            d.ID.String(),
		OrderID:       d.OrderID,
		UserID:        d.UserID.String(),
		ServiceID:     d.ServiceID.String(),
		ServiceName:   d.ServiceName,
		SlotID:        d.SlotID.String(),
		BookingDate:   d.BookingDate.Format("2006-01-02"),
		StartTime:     d.StartTime.Format("15:04"),
		EndTime:       d.EndTime.Format("15:04"),
		TotalAmount:   d.TotalAmount,
		PaymentMethod: d.PaymentMethod,
		BookingStatus: d.BookingStatus,
		PaymentStatus: d.PaymentStatus,
		CreatedAt:     d.CreatedAt,
		CancelledAt:   d.CancelledAt,
	}
}
