package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/clock"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// User operations (behind auth)
	CreateHold(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.HoldResponse, error)
	ConfirmHold(ctx context.Context, userID string, bookingID string) (*response.ConfirmResponse, error)
	CancelBooking(ctx context.Context, actorID string, isPrivileged bool, bookingID string) (*response.CancelResponse, error)
	GetUserBookings(ctx context.Context, userID string, scope string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin operations (scoped to the admin's own services)
	GetAdminBookings(ctx context.Context, adminID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	SetPaymentStatus(ctx context.Context, adminID string, bookingID string, req *request.UpdatePaymentStatusRequest) error

	// Sweeps (invoked by the janitor only)
	RunExpirySweep(ctx context.Context) (int64, error)
	RunCompletionSweep(ctx context.Context) (int64, error)
}

type bookingService struct {
	repo  *repository.Repository
	clock clock.Clock
	cfg   utils.BookingConfig
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, clk clock.Clock, cfg utils.BookingConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		clock: clk,
		cfg:   cfg,
		log:   log.With(zap.String("service", "booking")),
	}
}

// CreateHold grants a pending hold on a slot/date if it is vacant. The whole
// check-then-insert runs in one transaction holding locks on any live booking
// rows for the key; a lost insert race surfaces as ErrConcurrencyConflict and
// the transaction is retried from scratch a bounded number of times.
func (s *bookingService) CreateHold(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hold validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid service ID format %s: %w", req.ServiceID, err)
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("invalid slot ID format %s: %w", req.SlotID, err)
	}
	bookingDate, err := parseBookingDate(req.BookingDate)
	if err != nil {
		return nil, err
	}

	var result *response.HoldResponse
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		result, err = s.tryCreateHold(ctx, userUUID, serviceID, slotID, bookingDate, req.PaymentMethod)
		if errors.Is(err, entity.ErrConcurrencyConflict) {
			s.log.Debug("Create hold lost insert race, retrying",
				zap.String("slot_id", req.SlotID),
				zap.String("booking_date", req.BookingDate),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Hold created",
		zap.String("booking_id", result.BookingID),
		zap.String("order_id", result.OrderID),
		zap.String("user_id", userID),
		zap.String("slot_id", req.SlotID),
		zap.String("booking_date", req.BookingDate),
		zap.Float64("total_amount", result.TotalAmount),
	)

	return result, nil
}

func (s *bookingService) tryCreateHold(ctx context.Context, userID, serviceID, slotID uuid.UUID, bookingDate time.Time, paymentMethod string) (*response.HoldResponse, error) {
	now := s.clock.Now()
	var result *response.HoldResponse

	err := s.repo.Booking.WithTx(ctx, func(txCtx context.Context) error {
		svc, err := s.repo.Service.FindByID(txCtx, serviceID)
		if err != nil {
			return err
		}
		if svc == nil || svc.Status != entity.ServiceStatusActive {
			return entity.ErrNotFound
		}

		slot, err := s.repo.TimeSlot.FindByID(txCtx, slotID)
		if err != nil {
			return err
		}
		if slot == nil || slot.ServiceID != serviceID {
			return entity.ErrNotFound
		}
		if slot.Status != entity.SlotStatusAvailable {
			return entity.ErrInvalidState
		}

		startAt := slot.StartOn(bookingDate)
		if startAt.Before(now) {
			return entity.ErrPastSlot
		}
		if startAt.Sub(now) < s.cfg.Cutoff() {
			return entity.ErrCutoffViolation
		}

		// Locks any live rows for the key until commit, so concurrent
		// transitions on the same slot/date serialize here.
		live, err := s.repo.Booking.FindActiveBySlotDate(txCtx, slotID, bookingDate)
		if err != nil {
			return err
		}
		for _, existing := range live {
			switch existing.BookingStatus {
			case entity.BookingStatusConfirmed:
				return entity.ErrSlotTaken
			case entity.BookingStatusPending:
				if !existing.HoldExpired(now, s.cfg.HoldTTL()) {
					return entity.ErrSlotReserved
				}
				// Stale hold: flip it to expired here rather than
				// waiting for the janitor, then treat the slot as vacant.
				if err := s.repo.Booking.UpdateStatus(txCtx, existing.ID, entity.BookingStatusExpired, now); err != nil {
					return err
				}
			}
		}

		booking := &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			OrderID:       utils.GenerateOrderID(),
			UserID:        userID,
			ServiceID:     serviceID,
			SlotID:        slotID,
			BookingDate:   bookingDate,
			TotalAmount:   svc.Price,
			PaymentMethod: paymentMethod,
			BookingStatus: entity.BookingStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
		}

		if err := s.repo.Booking.Create(txCtx, booking); err != nil {
			return err
		}

		result = &response.HoldResponse{
			BookingID:   booking.ID.String(),
			OrderID:     booking.OrderID,
			TotalAmount: booking.TotalAmount,
			ExpiresAt:   booking.HoldExpiresAt(s.cfg.HoldTTL()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ConfirmHold promotes a pending hold to confirmed and marks payment
// completed. A stale or no-longer-bookable hold is flipped to expired inline
// so the caller is never left believing it is still valid.
func (s *bookingService) ConfirmHold(ctx context.Context, userID string, bookingID string) (*response.ConfirmResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	now := s.clock.Now()

	err = s.repo.Booking.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.Booking.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != userUUID {
			return entity.ErrNotFound
		}
		if booking.BookingStatus != entity.BookingStatusPending {
			return entity.ErrInvalidState
		}

		if booking.HoldExpired(now, s.cfg.HoldTTL()) {
			if err := s.repo.Booking.UpdateStatus(txCtx, booking.ID, entity.BookingStatusExpired, now); err != nil {
				return err
			}
			return entity.ErrExpired
		}

		slot, err := s.repo.TimeSlot.FindByID(txCtx, booking.SlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return entity.ErrNotFound
		}

		// Time may have run out since the hold was granted.
		startAt := slot.StartOn(booking.BookingDate)
		if startAt.Before(now) || startAt.Sub(now) < s.cfg.Cutoff() {
			if err := s.repo.Booking.UpdateStatus(txCtx, booking.ID, entity.BookingStatusExpired, now); err != nil {
				return err
			}
			return entity.ErrCutoffViolation
		}

		return s.repo.Booking.MarkConfirmed(txCtx, booking.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("user_id", userID),
	)

	return &response.ConfirmResponse{
		BookingID: bookingID,
		Status:    entity.BookingStatusConfirmed,
	}, nil
}

// CancelBooking cancels a confirmed booking. Pending holds are not
// cancellable; they are abandoned and expire. Privileged actors may cancel
// bookings for services they administer.
func (s *bookingService) CancelBooking(ctx context.Context, actorID string, isPrivileged bool, bookingID string) (*response.CancelResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor ID format %s: %w", actorID, err)
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	now := s.clock.Now()
	var result *response.CancelResponse

	err = s.repo.Booking.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.Booking.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return entity.ErrNotFound
		}

		if isPrivileged {
			svc, err := s.repo.Service.FindByID(txCtx, booking.ServiceID)
			if err != nil {
				return err
			}
			if svc == nil || svc.AdminID != actorUUID {
				return entity.ErrNotFound
			}
		} else if booking.UserID != actorUUID {
			return entity.ErrNotFound
		}

		switch booking.BookingStatus {
		case entity.BookingStatusCancelled:
			return entity.ErrAlreadyCancelled
		case entity.BookingStatusConfirmed:
			// cancellable
		default:
			return entity.ErrInvalidState
		}

		slot, err := s.repo.TimeSlot.FindByID(txCtx, booking.SlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return entity.ErrNotFound
		}
		if slot.StartOn(booking.BookingDate).Before(now) {
			return entity.ErrPastBooking
		}

		paymentStatus := booking.PaymentStatus
		if paymentStatus == entity.PaymentStatusCompleted {
			paymentStatus = entity.PaymentStatusRefunded
		}

		if err := s.repo.Booking.MarkCancelled(txCtx, booking.ID, paymentStatus, now); err != nil {
			return err
		}

		result = &response.CancelResponse{
			BookingID:    booking.ID.String(),
			RefundAmount: booking.TotalAmount,
			RefundPolicy: "full",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID),
		zap.Bool("privileged", isPrivileged),
		zap.Float64("refund_amount", result.RefundAmount),
	)

	return result, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, scope string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	listScope := repository.ScopeUpcoming
	if scope == string(repository.ScopeHistory) {
		listScope = repository.ScopeHistory
	}

	now := s.clock.Now()
	limit := req.Limit()
	offset := req.Offset()

	details, err := s.repo.Booking.FindDetailsByUserID(ctx, userUUID, listScope, now, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("scope", string(listScope)),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID, listScope, now)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookings := make([]response.BookingResponse, len(details))
	for i, d := range details {
		bookings[i] = response.BookingDetailToResponse(d)
	}

	return response.NewPaginatedResponse(bookings, req.Page, req.PerPage, total), nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) GetAdminBookings(ctx context.Context, adminID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin ID format %s: %w", adminID, err)
	}

	limit := req.Limit()
	offset := req.Offset()

	details, err := s.repo.Booking.FindDetailsByAdminID(ctx, adminUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get admin bookings",
			zap.Error(err),
			zap.String("admin_id", adminID),
		)
		return nil, fmt.Errorf("get admin bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByAdminID(ctx, adminUUID)
	if err != nil {
		s.log.Error("Failed to count admin bookings", zap.Error(err))
		return nil, fmt.Errorf("count admin bookings: %w", err)
	}

	bookings := make([]response.BookingResponse, len(details))
	for i, d := range details {
		bookings[i] = response.BookingDetailToResponse(d)
	}

	return response.NewPaginatedResponse(bookings, req.Page, req.PerPage, total), nil
}

// SetPaymentStatus updates the payment label on a booking for a service the
// admin owns. Booking status transitions stay exclusive to the lifecycle
// operations above.
func (s *bookingService) SetPaymentStatus(ctx context.Context, adminID string, bookingID string, req *request.UpdatePaymentStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Set payment status validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin ID format %s: %w", adminID, err)
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	now := s.clock.Now()

	err = s.repo.Booking.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.Booking.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return entity.ErrNotFound
		}

		svc, err := s.repo.Service.FindByID(txCtx, booking.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil || svc.AdminID != adminUUID {
			return entity.ErrNotFound
		}

		return s.repo.Booking.UpdatePaymentStatus(txCtx, booking.ID, entity.PaymentStatus(req.PaymentStatus), now)
	})
	if err != nil {
		return err
	}

	s.log.Info("Payment status updated",
		zap.String("booking_id", bookingID),
		zap.String("admin_id", adminID),
		zap.String("payment_status", req.PaymentStatus),
	)

	return nil
}

// ==================== SWEEPS ====================

func (s *bookingService) RunExpirySweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	count, err := s.repo.Booking.ExpireStaleHolds(ctx, now, s.cfg.HoldTTL())
	if err != nil {
		return 0, fmt.Errorf("expiry sweep: %w", err)
	}

	if count > 0 {
		s.log.Info("Expired stale holds", zap.Int64("count", count))
	}
	return count, nil
}

func (s *bookingService) RunCompletionSweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	count, err := s.repo.Booking.CompletePastBookings(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("completion sweep: %w", err)
	}

	if count > 0 {
		s.log.Info("Completed past bookings", zap.Int64("count", count))
	}
	return count, nil
}

func parseBookingDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %s: %w", value, err)
	}
	return date, nil
}
