package usecase

import (
	"court-booking/internal/data/repository"
	"court-booking/pkg/clock"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service aggregates all use-case services.
type Service struct {
	Catalog      CatalogService
	Availability AvailabilityService
	Booking      BookingService
}

func NewService(repo *repository.Repository, cfg *utils.Config, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{
		Catalog:      NewCatalogService(repo, log),
		Availability: NewAvailabilityService(repo, clk, cfg.Booking, log),
		Booking:      NewBookingService(repo, clk, cfg.Booking, log),
	}
}
