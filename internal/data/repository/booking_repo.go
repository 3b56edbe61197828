package repository

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// ListScope selects which side of "now" a booking list covers.
type ListScope string

const (
	ScopeUpcoming ListScope = "upcoming"
	ScopeHistory  ListScope = "history"
)

// BookingRepository is the reservation ledger. Every read-then-write sequence
// for a (slot_id, booking_date) key runs inside WithTx; FindActiveBySlotDate
// takes row locks so concurrent transitions on the same key serialize. The
// partial unique index on live bookings is the backstop for insert races:
// Create surfaces it as entity.ErrConcurrencyConflict.
type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveBySlotDate(ctx context.Context, slotID uuid.UUID, date time.Time) ([]*entity.Booking, error)
	FindByServiceDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*entity.Booking, error)

	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, now time.Time) error
	MarkConfirmed(ctx context.Context, bookingID uuid.UUID, now time.Time) error
	MarkCancelled(ctx context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus, now time.Time) error
	UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus, now time.Time) error

	ExpireStaleHolds(ctx context.Context, now time.Time, ttl time.Duration) (int64, error)
	CompletePastBookings(ctx context.Context, now time.Time) (int64, error)

	FindDetailsByUserID(ctx context.Context, userID uuid.UUID, scope ListScope, now time.Time, limit, offset int) ([]*entity.BookingDetail, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, scope ListScope, now time.Time) (int64, error)
	FindDetailsByAdminID(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error)
	CountByAdminID(ctx context.Context, adminID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

const bookingColumns = `id, order_id, user_id, service_id, slot_id, booking_date, total_amount,
		       payment_method, booking_status, payment_status, created_at, updated_at, cancelled_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_id, user_id, service_id, slot_id, booking_date, total_amount,
		                      payment_method, booking_status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.ServiceID,
		booking.SlotID,
		booking.BookingDate,
		booking.TotalAmount,
		booking.PaymentMethod,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			// Another transaction inserted a live booking for the same
			// slot and date between our check and our insert.
			return entity.ErrConcurrencyConflict
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.queryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	booking, err := scanBooking(r.queryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveBySlotDate(ctx context.Context, slotID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE slot_id = $1 AND booking_date = $2 AND booking_status IN ('pending', 'confirmed')
		FOR UPDATE
	`

	rows, err := r.query(ctx, query, slotID, date)
	if err != nil {
		r.log.Error("Failed to lock bookings by slot and date",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.Time("booking_date", date),
		)
		return nil, fmt.Errorf("lock bookings for slot %s: %w", slotID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) FindByServiceDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE service_id = $1 AND booking_date = $2 AND booking_status IN ('pending', 'confirmed')
	`

	rows, err := r.query(ctx, query, serviceID, date)
	if err != nil {
		r.log.Error("Failed to find bookings by service and date",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
			zap.Time("booking_date", date),
		)
		return nil, fmt.Errorf("find bookings for service %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, now time.Time) error {
	query := `UPDATE bookings SET booking_status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.exec(ctx, query, bookingID, status, now)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) MarkConfirmed(ctx context.Context, bookingID uuid.UUID, now time.Time) error {
	query := `
		UPDATE bookings
		SET booking_status = 'confirmed', payment_status = 'completed', updated_at = $2
		WHERE id = $1
	`

	result, err := r.exec(ctx, query, bookingID, now)
	if err != nil {
		r.log.Error("Failed to confirm booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("confirm booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus, now time.Time) error {
	query := `
		UPDATE bookings
		SET booking_status = 'cancelled', payment_status = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1
	`

	result, err := r.exec(ctx, query, bookingID, paymentStatus, now)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus, now time.Time) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.exec(ctx, query, bookingID, status, now)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_status", string(status)),
		)
		return fmt.Errorf("update booking %s payment status: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) ExpireStaleHolds(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	query := `
		UPDATE bookings
		SET booking_status = 'expired', updated_at = $2
		WHERE booking_status = 'pending' AND created_at < $1
	`

	result, err := r.exec(ctx, query, now.Add(-ttl), now)
	if err != nil {
		r.log.Error("Failed to expire stale holds", zap.Error(err))
		return 0, fmt.Errorf("expire stale holds: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) CompletePastBookings(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings b
		SET booking_status = 'completed', updated_at = $1
		FROM time_slots t
		WHERE b.slot_id = t.slot_id
		  AND b.booking_status = 'confirmed'
		  AND b.booking_date + t.end_time < $1
	`

	result, err := r.exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to complete past bookings", zap.Error(err))
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) FindDetailsByUserID(ctx context.Context, userID uuid.UUID, scope ListScope, now time.Time, limit, offset int) ([]*entity.BookingDetail, error) {
	query := `
		SELECT ` + bookingDetailColumns + `
		FROM bookings b
		JOIN services s ON b.service_id = s.id
		JOIN time_slots t ON b.slot_id = t.slot_id
		WHERE b.user_id = $1 AND ` + scopeCondition(scope) + `
		ORDER BY b.booking_date DESC, t.start_time DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, now, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("scope", string(scope)),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectBookingDetails(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID, scope ListScope, now time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN time_slots t ON b.slot_id = t.slot_id
		WHERE b.user_id = $1 AND ` + scopeCondition(scope)

	var count int64
	err := r.db.QueryRow(ctx, query, userID, now).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindDetailsByAdminID(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error) {
	query := `
		SELECT ` + bookingDetailColumns + `
		FROM bookings b
		JOIN services s ON b.service_id = s.id
		JOIN time_slots t ON b.slot_id = t.slot_id
		WHERE s.admin_id = $1
		ORDER BY b.booking_date DESC, t.start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, adminID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by admin ID",
			zap.Error(err),
			zap.String("admin_id", adminID.String()),
		)
		return nil, fmt.Errorf("find bookings by admin ID %s: %w", adminID.String(), err)
	}
	defer rows.Close()

	return collectBookingDetails(rows)
}

func (r *bookingRepository) CountByAdminID(ctx context.Context, adminID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN services s ON b.service_id = s.id
		WHERE s.admin_id = $1
	`

	var count int64
	err := r.db.QueryRow(ctx, query, adminID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by admin ID",
			zap.Error(err),
			zap.String("admin_id", adminID.String()),
		)
		return 0, fmt.Errorf("count bookings by admin ID %s: %w", adminID.String(), err)
	}

	return count, nil
}

const bookingDetailColumns = `b.id, b.order_id, b.user_id, b.service_id, b.slot_id, b.booking_date,
		       b.total_amount, b.payment_method, b.booking_status, b.payment_status,
		       b.created_at, b.updated_at, b.cancelled_at, s.service_name, t.start_time, t.end_time`

// scopeCondition filters on whether the booked slot's end is still ahead of
// now ($2). Upcoming excludes terminal records; history is the complement.
func scopeCondition(scope ListScope) string {
	if scope == ScopeUpcoming {
		return `(b.booking_status IN ('pending', 'confirmed') AND b.booking_date + t.end_time >= $2)`
	}
	return `(b.booking_status NOT IN ('pending', 'confirmed') OR b.booking_date + t.end_time < $2)`
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderID,
		&b.UserID,
		&b.ServiceID,
		&b.SlotID,
		&b.BookingDate,
		&b.TotalAmount,
		&b.PaymentMethod,
		&b.BookingStatus,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func collectBookingDetails(rows pgx.Rows) ([]*entity.BookingDetail, error) {
	var details []*entity.BookingDetail
	for rows.Next() {
		var (
			d     entity.BookingDetail
			start pgtype.Time
			end   pgtype.Time
		)
		err := rows.Scan(
			&d.ID,
			&d.OrderID,
			&d.UserID,
			&d.ServiceID,
			&d.SlotID,
			&d.BookingDate,
			&d.TotalAmount,
			&d.PaymentMethod,
			&d.BookingStatus,
			&d.PaymentStatus,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.CancelledAt,
			&d.ServiceName,
			&start,
			&end,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking detail row: %w", err)
		}
		d.StartTime = timeOfDay(start)
		d.EndTime = timeOfDay(end)
		details = append(details, &d)
	}
	return details, rows.Err()
}

func (r *bookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *bookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.db.QueryRow(ctx, sql, args...)
}

func (r *bookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.db.Query(ctx, sql, args...)
}
