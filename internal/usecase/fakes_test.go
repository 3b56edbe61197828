package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"

	"github.com/google/uuid"
)

// testClock is a settable clock for driving TTL and cutoff behavior.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t.UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeStore is an in-memory stand-in for the Postgres schema. A single mutex
// plays the role of the row locks: every repository call takes it, so the
// check-then-insert sequences serialize the same way FOR UPDATE does.
type fakeStore struct {
	mu       sync.Mutex
	services map[uuid.UUID]*entity.Service
	slots    map[uuid.UUID]*entity.TimeSlot
	bookings map[uuid.UUID]*entity.Booking

	// createHook runs inside Create before the uniqueness check, letting
	// tests stage a competing insert mid-transaction.
	createHook func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services: make(map[uuid.UUID]*entity.Service),
		slots:    make(map[uuid.UUID]*entity.TimeSlot),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}
}

func (s *fakeStore) addService(svc *entity.Service) { s.services[svc.ID] = svc }

func (s *fakeStore) addSlot(slot *entity.TimeSlot) { s.slots[slot.ID] = slot }

func (s *fakeStore) booking(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBooking(s.bookings[id])
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func (s *fakeStore) repositories() *repository.Repository {
	return &repository.Repository{
		Service:  &fakeServiceRepo{store: s},
		TimeSlot: &fakeSlotRepo{store: s},
		Booking:  &fakeBookingRepo{store: s},
	}
}

type fakeServiceRepo struct{ store *fakeStore }

func (r *fakeServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	svc, ok := r.store.services[id]
	if !ok {
		return nil, nil
	}
	c := *svc
	return &c, nil
}

func (r *fakeServiceRepo) FindAllActive(ctx context.Context) ([]*entity.Service, error) {
	var result []*entity.Service
	for _, svc := range r.store.services {
		if svc.Status == entity.ServiceStatusActive {
			c := *svc
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeSlotRepo struct{ store *fakeStore }

func (r *fakeSlotRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	slot, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	c := *slot
	return &c, nil
}

func (r *fakeSlotRepo) FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]*entity.TimeSlot, error) {
	var result []*entity.TimeSlot
	for _, slot := range r.store.slots {
		if slot.ServiceID == serviceID {
			c := *slot
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(ctx)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isLive(status entity.BookingStatus) bool {
	return status == entity.BookingStatusPending || status == entity.BookingStatusConfirmed
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if r.store.createHook != nil {
		r.store.createHook()
	}
	// Mirrors the partial unique index on live bookings.
	for _, existing := range r.store.bookings {
		if existing.SlotID == booking.SlotID && sameDate(existing.BookingDate, booking.BookingDate) && isLive(existing.BookingStatus) {
			return entity.ErrConcurrencyConflict
		}
	}
	r.store.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return cloneBooking(r.store.bookings[id]), nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return cloneBooking(r.store.bookings[id]), nil
}

func (r *fakeBookingRepo) FindActiveBySlotDate(ctx context.Context, slotID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	var result []*entity.Booking
	for _, b := range r.store.bookings {
		if b.SlotID == slotID && sameDate(b.BookingDate, date) && isLive(b.BookingStatus) {
			result = append(result, cloneBooking(b))
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) FindByServiceDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Booking
	for _, b := range r.store.bookings {
		if b.ServiceID == serviceID && sameDate(b.BookingDate, date) {
			result = append(result, cloneBooking(b))
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, now time.Time) error {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}
	b.BookingStatus = status
	b.UpdatedAt = now
	return nil
}

func (r *fakeBookingRepo) MarkConfirmed(ctx context.Context, bookingID uuid.UUID, now time.Time) error {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}
	b.BookingStatus = entity.BookingStatusConfirmed
	b.PaymentStatus = entity.PaymentStatusCompleted
	b.UpdatedAt = now
	return nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus, now time.Time) error {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}
	b.BookingStatus = entity.BookingStatusCancelled
	b.PaymentStatus = paymentStatus
	t := now
	b.CancelledAt = &t
	b.UpdatedAt = now
	return nil
}

func (r *fakeBookingRepo) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus, now time.Time) error {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = now
	return nil
}

func (r *fakeBookingRepo) ExpireStaleHolds(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, b := range r.store.bookings {
		if b.BookingStatus == entity.BookingStatusPending && now.After(b.CreatedAt.Add(ttl)) {
			b.BookingStatus = entity.BookingStatusExpired
			b.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) CompletePastBookings(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, b := range r.store.bookings {
		if b.BookingStatus != entity.BookingStatusConfirmed {
			continue
		}
		slot, ok := r.store.slots[b.SlotID]
		if !ok {
			continue
		}
		if slot.EndOn(b.BookingDate).Before(now) {
			b.BookingStatus = entity.BookingStatusCompleted
			b.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) FindDetailsByUserID(ctx context.Context, userID uuid.UUID, scope repository.ListScope, now time.Time, limit, offset int) ([]*entity.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.BookingDetail
	for _, b := range r.store.bookings {
		if b.UserID != userID {
			continue
		}
		d := r.detail(b)
		if matchesScope(d, scope, now) {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, limit, offset), nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID, scope repository.ListScope, now time.Time) (int64, error) {
	details, err := r.FindDetailsByUserID(ctx, userID, scope, now, 1<<30, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(details)), nil
}

func (r *fakeBookingRepo) FindDetailsByAdminID(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.BookingDetail
	for _, b := range r.store.bookings {
		svc, ok := r.store.services[b.ServiceID]
		if !ok || svc.AdminID != adminID {
			continue
		}
		result = append(result, r.detail(b))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, limit, offset), nil
}

func (r *fakeBookingRepo) CountByAdminID(ctx context.Context, adminID uuid.UUID) (int64, error) {
	details, err := r.FindDetailsByAdminID(ctx, adminID, 1<<30, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(details)), nil
}

func (r *fakeBookingRepo) detail(b *entity.Booking) *entity.BookingDetail {
	d := &entity.BookingDetail{Booking: *cloneBooking(b)}
	if svc, ok := r.store.services[b.ServiceID]; ok {
		d.ServiceName = svc.Name
	}
	if slot, ok := r.store.slots[b.SlotID]; ok {
		d.StartTime = slot.StartTime
		d.EndTime = slot.EndTime
	}
	return d
}

func matchesScope(d *entity.BookingDetail, scope repository.ListScope, now time.Time) bool {
	slotEnd := time.Date(d.BookingDate.Year(), d.BookingDate.Month(), d.BookingDate.Day(),
		d.EndTime.Hour(), d.EndTime.Minute(), d.EndTime.Second(), 0, time.UTC)
	upcoming := isLive(d.BookingStatus) && !slotEnd.Before(now)
	if scope == repository.ScopeUpcoming {
		return upcoming
	}
	return !upcoming
}

func paginate(details []*entity.BookingDetail, limit, offset int) []*entity.BookingDetail {
	if offset >= len(details) {
		return nil
	}
	details = details[offset:]
	if limit < len(details) {
		details = details[:limit]
	}
	return details
}
