package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// sweepRecorder satisfies usecase.BookingService for the two methods the
// janitor actually calls.
type sweepRecorder struct {
	expiry      atomic.Int64
	completion  atomic.Int64
	expiryErr   error
	completeErr error
}

func (s *sweepRecorder) RunExpirySweep(ctx context.Context) (int64, error) {
	s.expiry.Add(1)
	return 0, s.expiryErr
}

func (s *sweepRecorder) RunCompletionSweep(ctx context.Context) (int64, error) {
	s.completion.Add(1)
	return 0, s.completeErr
}

func (s *sweepRecorder) CreateHold(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.HoldResponse, error) {
	return nil, nil
}

func (s *sweepRecorder) ConfirmHold(ctx context.Context, userID string, bookingID string) (*response.ConfirmResponse, error) {
	return nil, nil
}

func (s *sweepRecorder) CancelBooking(ctx context.Context, actorID string, isPrivileged bool, bookingID string) (*response.CancelResponse, error) {
	return nil, nil
}

func (s *sweepRecorder) GetUserBookings(ctx context.Context, userID string, scope string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return nil, nil
}

func (s *sweepRecorder) GetAdminBookings(ctx context.Context, adminID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return nil, nil
}

func (s *sweepRecorder) SetPaymentStatus(ctx context.Context, adminID string, bookingID string, req *request.UpdatePaymentStatusRequest) error {
	return nil
}

func TestJanitorRunsBothSweeps(t *testing.T) {
	recorder := &sweepRecorder{}
	janitor := NewJanitor(recorder, utils.JanitorConfig{
		ExpiryInterval:     5 * time.Millisecond,
		CompletionInterval: 5 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		janitor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on context cancellation")
	}

	assert.GreaterOrEqual(t, recorder.expiry.Load(), int64(2))
	assert.GreaterOrEqual(t, recorder.completion.Load(), int64(2))
}

func TestJanitorSurvivesSweepFailures(t *testing.T) {
	recorder := &sweepRecorder{
		expiryErr:   errors.New("db down"),
		completeErr: errors.New("db down"),
	}
	janitor := NewJanitor(recorder, utils.JanitorConfig{
		ExpiryInterval:     5 * time.Millisecond,
		CompletionInterval: 5 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		janitor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on context cancellation")
	}

	// Failures are retried on subsequent ticks rather than killing the loop.
	assert.GreaterOrEqual(t, recorder.expiry.Load(), int64(2))
}
