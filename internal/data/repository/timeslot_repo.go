package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// TimeSlotRepository reads slot definitions from the catalog.
type TimeSlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error)
	FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]*entity.TimeSlot, error)
}

type timeSlotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTimeSlotRepository(db database.PgxIface, log *zap.Logger) TimeSlotRepository {
	return &timeSlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "time_slot")),
	}
}

func (r *timeSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	query := `
		SELECT slot_id, service_id, start_time, end_time, status, created_at
		FROM time_slots
		WHERE slot_id = $1
	`

	slot, err := scanTimeSlot(r.queryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find time slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find time slot by ID %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *timeSlotRepository) FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]*entity.TimeSlot, error) {
	query := `
		SELECT slot_id, service_id, start_time, end_time, status, created_at
		FROM time_slots
		WHERE service_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		r.log.Error("Failed to find time slots by service ID",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find time slots by service ID %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.TimeSlot
	for rows.Next() {
		slot, err := scanTimeSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan time slot row", zap.Error(err))
			return nil, fmt.Errorf("scan time slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func scanTimeSlot(row pgx.Row) (*entity.TimeSlot, error) {
	var (
		slot  entity.TimeSlot
		start pgtype.Time
		end   pgtype.Time
	)
	err := row.Scan(
		&slot.ID,
		&slot.ServiceID,
		&start,
		&end,
		&slot.Status,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	slot.StartTime = timeOfDay(start)
	slot.EndTime = timeOfDay(end)
	return &slot, nil
}

func (r *timeSlotRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.db.QueryRow(ctx, sql, args...)
}
