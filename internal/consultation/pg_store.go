package consultation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/db"
)

const consultationColumns = `id, patient_id, practitioner_id, appointment_id, booked_at,
	chief_complaint, symptoms, diagnosis, notes, follow_up_date, created_at, updated_at`

const labTestColumns = `id, consultation_id, patient_id, practitioner_id, test_name, status, result,
	requested_at, completed_at`

const appointmentIndex = "consultations_appointment_uq"

// PgStore is bound either to the pool or, inside InTx, to one transaction.
type PgStore struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool, q: pool}
}

func (s *PgStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&PgStore{q: tx})
	})
}

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(
		&c.ID, &c.PatientID, &c.PractitionerID, &c.AppointmentID, &c.BookedAt,
		&c.ChiefComplaint, &c.Symptoms, &c.Diagnosis, &c.Notes, &c.FollowUpDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanLabTest(row pgx.Row) (*LabTest, error) {
	var t LabTest
	err := row.Scan(
		&t.ID, &t.ConsultationID, &t.PatientID, &t.PractitionerID, &t.TestName, &t.Status, &t.Result,
		&t.RequestedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLabTestNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *PgStore) InsertConsultation(ctx context.Context, c *Consultation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := s.q.QueryRow(ctx, `
		INSERT INTO consultations (id, patient_id, practitioner_id, appointment_id, booked_at,
			chief_complaint, symptoms, diagnosis, notes, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, c.ID, c.PatientID, c.PractitionerID, c.AppointmentID, c.BookedAt,
		c.ChiefComplaint, c.Symptoms, c.Diagnosis, c.Notes, c.FollowUpDate,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, appointmentIndex) {
			return ErrConsultationExists
		}
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

func (s *PgStore) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return scanConsultation(s.q.QueryRow(ctx, `SELECT `+consultationColumns+` FROM consultations WHERE id = $1`, id))
}

func (s *PgStore) UpdateConsultation(ctx context.Context, c *Consultation) error {
	err := s.q.QueryRow(ctx, `
		UPDATE consultations
		SET chief_complaint = $2,
		    symptoms = $3,
		    diagnosis = $4,
		    notes = $5,
		    follow_up_date = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.ChiefComplaint, c.Symptoms, c.Diagnosis, c.Notes, c.FollowUpDate).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConsultationNotFound
	}
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return nil
}

func (s *PgStore) DeleteConsultation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConsultationNotFound
	}
	return nil
}

func (s *PgStore) PrescriptionByConsultation(ctx context.Context, consultationID uuid.UUID) (*Prescription, error) {
	var p Prescription
	err := s.q.QueryRow(ctx, `
		SELECT id, consultation_id, patient_id, practitioner_id, created_at
		FROM prescriptions
		WHERE consultation_id = $1
	`, consultationID).Scan(&p.ID, &p.ConsultationID, &p.PatientID, &p.PractitionerID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PgStore) InsertPrescription(ctx context.Context, p *Prescription) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := s.q.QueryRow(ctx, `
		INSERT INTO prescriptions (id, consultation_id, patient_id, practitioner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, p.ID, p.ConsultationID, p.PatientID, p.PractitionerID).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (s *PgStore) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete prescription: %w", err)
	}
	return nil
}

func (s *PgStore) InsertPrescriptionItems(ctx context.Context, items []PrescriptionItem) error {
	for _, it := range items {
		id := it.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := s.q.Exec(ctx, `
			INSERT INTO prescription_items (id, prescription_id, position, medicine_id,
				dose_morning, dose_noon, dose_evening, meal_time, duration_days, quantity, dosage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, id, it.PrescriptionID, it.Position, it.MedicineID,
			it.DoseMorning, it.DoseNoon, it.DoseEvening, it.MealTime, it.DurationDays, it.Quantity, it.Dosage)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrUnknownMedicine, it.MedicineID)
			}
			return fmt.Errorf("insert prescription item: %w", err)
		}
	}
	return nil
}

func (s *PgStore) DeletePrescriptionItems(ctx context.Context, prescriptionID uuid.UUID) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM prescription_items WHERE prescription_id = $1`, prescriptionID); err != nil {
		return fmt.Errorf("delete prescription items: %w", err)
	}
	return nil
}

func (s *PgStore) ItemsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]PrescriptionItem, error) {
	rows, err := s.q.Query(ctx, `
		SELECT i.id, i.prescription_id, i.position, i.medicine_id, m.name,
		       i.dose_morning, i.dose_noon, i.dose_evening, i.meal_time, i.duration_days, i.quantity, i.dosage
		FROM prescription_items i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.prescription_id = $1
		ORDER BY i.position
	`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []PrescriptionItem{}
	for rows.Next() {
		var it PrescriptionItem
		err := rows.Scan(&it.ID, &it.PrescriptionID, &it.Position, &it.MedicineID, &it.MedicineName,
			&it.DoseMorning, &it.DoseNoon, &it.DoseEvening, &it.MealTime, &it.DurationDays, &it.Quantity, &it.Dosage)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (s *PgStore) InsertLabTests(ctx context.Context, tests []LabTest) error {
	for _, t := range tests {
		id := t.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := s.q.Exec(ctx, `
			INSERT INTO lab_tests (id, consultation_id, patient_id, practitioner_id, test_name, status, result, requested_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id, t.ConsultationID, t.PatientID, t.PractitionerID, t.TestName, t.Status, t.Result, t.RequestedAt)
		if err != nil {
			return fmt.Errorf("insert lab test: %w", err)
		}
	}
	return nil
}

func (s *PgStore) DeleteLabTestsByConsultation(ctx context.Context, consultationID uuid.UUID) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM lab_tests WHERE consultation_id = $1`, consultationID); err != nil {
		return fmt.Errorf("delete lab tests: %w", err)
	}
	return nil
}

func (s *PgStore) labTests(ctx context.Context, where string, arg any) ([]LabTest, error) {
	rows, err := s.q.Query(ctx, `SELECT `+labTestColumns+` FROM lab_tests WHERE `+where+` ORDER BY requested_at DESC, test_name`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []LabTest{}
	for rows.Next() {
		t, err := scanLabTest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (s *PgStore) LabTestsByConsultation(ctx context.Context, consultationID uuid.UUID) ([]LabTest, error) {
	return s.labTests(ctx, "consultation_id = $1", consultationID)
}

func (s *PgStore) LabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]LabTest, error) {
	return s.labTests(ctx, "patient_id = $1", patientID)
}

func (s *PgStore) GetLabTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return scanLabTest(s.q.QueryRow(ctx, `SELECT `+labTestColumns+` FROM lab_tests WHERE id = $1`, id))
}

func (s *PgStore) UpdateLabTest(ctx context.Context, t *LabTest) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE lab_tests
		SET test_name = $2,
		    status = $3,
		    result = $4,
		    completed_at = $5
		WHERE id = $1
	`, t.ID, t.TestName, t.Status, t.Result, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("update lab test: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLabTestNotFound
	}
	return nil
}

func (s *PgStore) DeleteLabTest(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM lab_tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lab test: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLabTestNotFound
	}
	return nil
}

func (s *PgStore) SetAppointmentVisited(ctx context.Context, appointmentID uuid.UUID, visited bool, status appointment.Status) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE appointments
		SET is_visited = $2,
		    status = $3,
		    updated_at = now()
		WHERE id = $1 AND is_active
	`, appointmentID, visited, status)
	if err != nil {
		return false, fmt.Errorf("set appointment visited: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PgStore) History(ctx context.Context, patientID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT c.id, c.appointment_id, c.booked_at, d.full_name,
		       c.chief_complaint, c.symptoms, c.diagnosis, c.notes, c.follow_up_date
		FROM consultations c
		JOIN practitioners d ON d.id = c.practitioner_id
		WHERE c.patient_id = $1
		ORDER BY c.booked_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []HistoryEntry{}
	for rows.Next() {
		var h HistoryEntry
		err := rows.Scan(&h.ConsultationID, &h.AppointmentID, &h.VisitDate, &h.PractitionerName,
			&h.ChiefComplaint, &h.Symptoms, &h.Diagnosis, &h.Notes, &h.FollowUpDate)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

const prescriptionSummarySelect = `
	SELECT p.id, p.consultation_id, pt.full_name, d.full_name, c.diagnosis, c.booked_at
	FROM prescriptions p
	JOIN consultations c ON c.id = p.consultation_id
	JOIN patients pt ON pt.id = c.patient_id
	JOIN practitioners d ON d.id = c.practitioner_id`

func scanSummary(row pgx.Row) (*PrescriptionSummary, error) {
	var p PrescriptionSummary
	err := row.Scan(&p.ID, &p.ConsultationID, &p.PatientName, &p.PractitionerName, &p.Diagnosis, &p.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PgStore) SearchPrescriptions(ctx context.Context, keyword string) ([]PrescriptionSummary, error) {
	rows, err := s.q.Query(ctx, prescriptionSummarySelect+`
		WHERE pt.full_name ILIKE '%' || $1 || '%'
		   OR d.full_name ILIKE '%' || $1 || '%'
		ORDER BY c.booked_at DESC
	`, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []PrescriptionSummary{}
	for rows.Next() {
		p, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (s *PgStore) GetPrescriptionSummary(ctx context.Context, id uuid.UUID) (*PrescriptionSummary, error) {
	return scanSummary(s.q.QueryRow(ctx, prescriptionSummarySelect+` WHERE p.id = $1`, id))
}
