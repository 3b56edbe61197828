package request

type CreateBookingRequest struct {
	ServiceID     string `json:"service_id" validate:"required,uuid4"`
	SlotID        string `json:"slot_id" validate:"required,uuid4"`
	BookingDate   string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card online"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending completed refunded"`
}
