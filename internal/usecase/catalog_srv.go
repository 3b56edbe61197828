package usecase

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	GetActiveServices(ctx context.Context) ([]response.ServiceResponse, error)
	GetServiceSlots(ctx context.Context, serviceID string) ([]response.TimeSlotResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetActiveServices(ctx context.Context) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}

	result := make([]response.ServiceResponse, len(services))
	for i, svc := range services {
		result[i] = response.ServiceToResponse(svc)
	}
	return result, nil
}

func (s *catalogService) GetServiceSlots(ctx context.Context, serviceID string) ([]response.TimeSlotResponse, error) {
	svcID, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, fmt.Errorf("invalid service ID format %s: %w", serviceID, err)
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
		s.log.Error("Failed to list slots", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("list slots: %w", err)
	}

	result := make([]response.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		result[i] = response.TimeSlotToResponse(slot)
	}
	return result, nil
}
