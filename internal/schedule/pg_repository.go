package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackgods/clinicops/internal/db"
)

const scheduleColumns = `id, practitioner_id, day_of_week, start_time, end_time, is_active, created_at, updated_at`

// Ordering by weekday number keeps Monday..Sunday regardless of label collation.
const dayOrder = `array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day_of_week)`

type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.PractitionerID, &s.Day, &s.StartTime, &s.EndTime, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) list(ctx context.Context, sql string, args ...any) ([]Schedule, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *PgRepository) Insert(ctx context.Context, s Schedule) (*Schedule, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO practitioner_schedules (id, practitioner_id, day_of_week, start_time, end_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+scheduleColumns,
		s.ID, s.PractitionerID, s.Day, s.StartTime, s.EndTime, s.Active)
	created, err := scanSchedule(row)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	return created, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	row := r.q.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM practitioner_schedules WHERE id = $1`, id)
	return scanSchedule(row)
}

func (r *PgRepository) Update(ctx context.Context, s Schedule) (*Schedule, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE practitioner_schedules
		SET practitioner_id = $2,
		    day_of_week = $3,
		    start_time = $4,
		    end_time = $5,
		    is_active = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+scheduleColumns,
		s.ID, s.PractitionerID, s.Day, s.StartTime, s.EndTime, s.Active)
	return scanSchedule(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM practitioner_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *PgRepository) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]Schedule, error) {
	return r.list(ctx, `
		SELECT `+scheduleColumns+`
		FROM practitioner_schedules
		WHERE practitioner_id = $1 AND is_active
		ORDER BY `+dayOrder+`, start_time`, practitionerID)
}

func (r *PgRepository) ActiveForDay(ctx context.Context, practitionerID uuid.UUID, day Weekday) ([]Schedule, error) {
	return r.list(ctx, `
		SELECT `+scheduleColumns+`
		FROM practitioner_schedules
		WHERE practitioner_id = $1 AND day_of_week = $2 AND is_active
		ORDER BY start_time`, practitionerID, day)
}
