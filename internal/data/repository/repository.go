package repository

import (
	"court-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Service  ServiceRepository
	TimeSlot TimeSlotRepository
	Booking  BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Service:  NewServiceRepository(db, log),
		TimeSlot: NewTimeSlotRepository(db, log),
		Booking:  NewBookingRepository(db, log),
	}
}
