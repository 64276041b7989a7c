package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinicops/internal/db"
)

const appointmentColumns = `a.id, a.patient_id, a.practitioner_id, a.appointment_date, a.time_slot, a.token_no,
	a.status, a.is_visited, a.reason, a.consultation_type, a.consultation_fee, a.is_active,
	a.created_at, a.updated_at, a.patient_mrn, a.patient_name, a.patient_phone, a.patient_address,
	a.practitioner_name`

const detailSelect = `SELECT ` + appointmentColumns + `, p.full_name, d.full_name, d.specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN practitioners d ON d.id = a.practitioner_id`

const (
	slotIndex  = "appointments_active_slot_uq"
	tokenIndex = "appointments_active_token_uq"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func appointmentDest(a *Appointment) []any {
	return []any{
		&a.ID, &a.PatientID, &a.PractitionerID, &a.Date, &a.TimeSlot, &a.TokenNo,
		&a.Status, &a.Visited, &a.Reason, &a.ConsultationType, &a.Fee, &a.Active,
		&a.CreatedAt, &a.UpdatedAt, &a.PatientMRN, &a.PatientName, &a.PatientPhone, &a.PatientAddress,
		&a.PractitionerName,
	}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(appointmentDest(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	dest := append(appointmentDest(&d.Appointment), &d.CurrentPatientName, &d.CurrentPractitionerName, &d.Specialization)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// lockDay serialises token assignment for one practitioner and date until
// the enclosing transaction ends.
func lockDay(ctx context.Context, q db.Querier, practitionerID uuid.UUID, date time.Time) error {
	key := practitionerID.String() + ":" + date.Format(time.DateOnly)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock practitioner day: %w", err)
	}
	return nil
}

func slotTaken(ctx context.Context, q db.Querier, practitionerID uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error) {
	var taken bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE practitioner_id = $1
			  AND appointment_date = $2
			  AND time_slot = $3
			  AND is_active
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`, practitionerID, date, slot, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return taken, nil
}

func maxToken(ctx context.Context, q db.Querier, practitionerID uuid.UUID, date time.Time, exclude *uuid.UUID) (int, error) {
	var highest int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(token_no), 0)
		FROM appointments
		WHERE practitioner_id = $1
		  AND appointment_date = $2
		  AND is_active
		  AND ($3::uuid IS NULL OR id <> $3)
	`, practitionerID, date, exclude).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("max token: %w", err)
	}
	return highest, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, slotIndex):
		return ErrSlotTaken.WithCause(err)
	case db.IsUniqueViolation(err, tokenIndex):
		return ErrTokenConflict.WithCause(err)
	}
	return err
}

// Interface methods

func (r *PgRepository) SlotTaken(ctx context.Context, practitionerID uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error) {
	return slotTaken(ctx, r.pool, practitionerID, date, slot, exclude)
}

func (r *PgRepository) MaxToken(ctx context.Context, practitionerID uuid.UUID, date time.Time) (int, error) {
	return maxToken(ctx, r.pool, practitionerID, date, nil)
}

func (r *PgRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	var created *Appointment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockDay(ctx, tx, a.PractitionerID, a.Date); err != nil {
			return err
		}

		taken, err := slotTaken(ctx, tx, a.PractitionerID, a.Date, a.TimeSlot, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		highest, err := maxToken(ctx, tx, a.PractitionerID, a.Date, nil)
		if err != nil {
			return err
		}
		a.TokenNo = highest + 1

		row := tx.QueryRow(ctx, `
			INSERT INTO appointments AS a (
				id, patient_id, practitioner_id, appointment_date, time_slot, token_no,
				status, is_visited, reason, consultation_type, consultation_fee, is_active,
				created_at, updated_at, patient_mrn, patient_name, patient_phone, patient_address,
				practitioner_name
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, now(), now(), $12, $13, $14, $15, $16)
			RETURNING `+appointmentColumns,
			a.ID, a.PatientID, a.PractitionerID, a.Date, a.TimeSlot, a.TokenNo,
			a.Status, a.Visited, a.Reason, a.ConsultationType, a.Fee,
			a.PatientMRN, a.PatientName, a.PatientPhone, a.PatientAddress, a.PractitionerName,
		)
		created, err = scanAppointment(row)
		return err
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (r *PgRepository) Update(ctx context.Context, a Appointment, opts UpdateOptions) (*Appointment, error) {
	var updated *Appointment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockDay(ctx, tx, a.PractitionerID, a.Date); err != nil {
			return err
		}

		taken, err := slotTaken(ctx, tx, a.PractitionerID, a.Date, a.TimeSlot, &a.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		if opts.ReassignToken {
			highest, err := maxToken(ctx, tx, a.PractitionerID, a.Date, &a.ID)
			if err != nil {
				return err
			}
			a.TokenNo = highest + 1
		}

		row := tx.QueryRow(ctx, `
			UPDATE appointments AS a
			SET patient_id = $2,
			    practitioner_id = $3,
			    appointment_date = $4,
			    time_slot = $5,
			    token_no = $6,
			    status = CASE WHEN $16 THEN $7 ELSE a.status END,
			    is_visited = CASE WHEN $16 THEN $8 ELSE a.is_visited END,
			    reason = $9,
			    consultation_type = $10,
			    patient_mrn = $11,
			    patient_name = $12,
			    patient_phone = $13,
			    patient_address = $14,
			    practitioner_name = $15,
			    updated_at = now()
			WHERE a.id = $1 AND a.is_active
			RETURNING `+appointmentColumns,
			a.ID, a.PatientID, a.PractitionerID, a.Date, a.TimeSlot, a.TokenNo,
			a.Status, a.Visited, a.Reason, a.ConsultationType,
			a.PatientMRN, a.PatientName, a.PatientPhone, a.PatientAddress, a.PractitionerName,
			opts.SetStatus,
		)
		updated, err = scanAppointment(row)
		return err
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return updated, nil
}

func (r *PgRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET is_active = FALSE,
		    updated_at = now()
		WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete appointment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1 AND a.is_active`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailSelect+` WHERE a.id = $1 AND a.is_active`, id)
	return scanDetail(row)
}

// listQuery builds the filtered listing. The active predicate is always the
// first condition.
func listQuery(f Filter) (string, []any) {
	where := []string{"a.is_active"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.PatientID != nil {
		add("a.patient_id = $%d", *f.PatientID)
	}
	if f.PractitionerID != nil {
		add("a.practitioner_id = $%d", *f.PractitionerID)
	}
	if f.From != nil {
		add("a.appointment_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("a.appointment_date <= $%d", *f.To)
	}
	if f.PendingOnly {
		where = append(where, "NOT a.is_visited")
	}

	sql := detailSelect + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY a.appointment_date ASC, a.token_no ASC"
	return sql, args
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]AppointmentDetail, error) {
	sql, args := listQuery(f)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []AppointmentDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) BookedSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT time_slot
		FROM appointments
		WHERE practitioner_id = $1 AND appointment_date = $2 AND is_active
	`, practitionerID, DateOnly(date))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
