package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/response"
	"court-booking/pkg/clock"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	ResolveAvailability(ctx context.Context, serviceID string, date string) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo  *repository.Repository
	clock clock.Clock
	cfg   utils.BookingConfig
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, clk clock.Clock, cfg utils.BookingConfig, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		clock: clk,
		cfg:   cfg,
		log:   log.With(zap.String("service", "availability")),
	}
}

// ResolveAvailability computes the live status of every slot of a service on
// a given date. This is a read-only snapshot; holds whose TTL has lapsed but
// that the janitor has not swept yet are already reported as vacant.
func (s *availabilityService) ResolveAvailability(ctx context.Context, serviceID string, date string) (*response.AvailabilityResponse, error) {
	svcID, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, fmt.Errorf("invalid service ID format %s: %w", serviceID, err)
	}
	bookingDate, err := parseBookingDate(date)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if bookingDate.Before(today) {
		return nil, entity.ErrPastSlot
	}

	svc, err := s.repo.Service.FindByID(ctx, svcID)
	if err != nil {
		return nil, err
	}
	if svc == nil || svc.Status != entity.ServiceStatusActive {
		return nil, entity.ErrNotFound
	}

	slots, err := s.repo.TimeSlot.FindByServiceID(ctx, svcID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindByServiceDate(ctx, svcID, bookingDate)
	if err != nil {
		return nil, err
	}

	confirmed := make(map[uuid.UUID]bool)
	held := make(map[uuid.UUID]bool)
	for _, b := range bookings {
		switch b.BookingStatus {
		case entity.BookingStatusConfirmed:
			confirmed[b.SlotID] = true
		case entity.BookingStatusPending:
			if !b.HoldExpired(now, s.cfg.HoldTTL()) {
				held[b.SlotID] = true
			}
		}
	}

	result := &response.AvailabilityResponse{
		ServiceID: serviceID,
		Date:      bookingDate.Format("2006-01-02"),
		Slots:     make([]response.SlotAvailability, len(slots)),
	}
	for i, slot := range slots {
		result.Slots[i] = response.SlotAvailability{
			SlotID:    slot.ID.String(),
			StartTime: slot.StartTime.Format("15:04"),
			EndTime:   slot.EndTime.Format("15:04"),
			Status:    s.resolveSlot(slot, bookingDate, now, confirmed, held),
		}
	}

	return result, nil
}

// resolveSlot applies precedence: booked > reserved > past > available >
// unavailable.
func (s *availabilityService) resolveSlot(slot *entity.TimeSlot, date, now time.Time, confirmed, held map[uuid.UUID]bool) entity.AvailabilityStatus {
	if confirmed[slot.ID] {
		return entity.AvailabilityBooked
	}
	if held[slot.ID] {
		return entity.AvailabilityReserved
	}
	if !slot.StartOn(date).After(now.Add(s.cfg.Cutoff())) {
		return entity.AvailabilityPast
	}
	if slot.Status == entity.SlotStatusAvailable {
		return entity.AvailabilityAvailable
	}
	return entity.AvailabilityUnavailable
}
