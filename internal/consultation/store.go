package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/appointment"
)

var (
	ErrConsultationNotFound = apperr.NotFound("consultation_not_found", "consultation not found")
	ErrPrescriptionNotFound = apperr.NotFound("prescription_not_found", "prescription not found")
	ErrLabTestNotFound      = apperr.NotFound("lab_test_not_found", "lab test not found")
	ErrConsultationExists   = apperr.Conflict("consultation_exists", "appointment already has a consultation")
	ErrMissingReference     = apperr.Invalid("missing_reference", "patient, practitioner and appointment are required")
	ErrInvalidMedicineLine  = apperr.Invalid("invalid_medicine_line", "medicine lines need a medicine and non-negative doses, duration and quantity")
	ErrInvalidMealTime      = apperr.Invalid("invalid_meal_time", "meal time must be Before Food or After Food")
	ErrInvalidLabTest       = apperr.Invalid("invalid_lab_test", "lab test name is required")
	ErrUnknownMedicine      = apperr.Invalid("unknown_medicine", "prescription references an unknown medicine")
)

// Store persists consultations and their children. Mutations that must
// commit together run through InTx; the Store handed to fn is bound to the
// transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	InsertConsultation(ctx context.Context, c *Consultation) error
	GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error)
	UpdateConsultation(ctx context.Context, c *Consultation) error
	DeleteConsultation(ctx context.Context, id uuid.UUID) error

	PrescriptionByConsultation(ctx context.Context, consultationID uuid.UUID) (*Prescription, error)
	InsertPrescription(ctx context.Context, p *Prescription) error
	DeletePrescription(ctx context.Context, id uuid.UUID) error
	InsertPrescriptionItems(ctx context.Context, items []PrescriptionItem) error
	DeletePrescriptionItems(ctx context.Context, prescriptionID uuid.UUID) error
	ItemsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]PrescriptionItem, error)

	InsertLabTests(ctx context.Context, tests []LabTest) error
	DeleteLabTestsByConsultation(ctx context.Context, consultationID uuid.UUID) error
	LabTestsByConsultation(ctx context.Context, consultationID uuid.UUID) ([]LabTest, error)
	LabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]LabTest, error)
	GetLabTest(ctx context.Context, id uuid.UUID) (*LabTest, error)
	UpdateLabTest(ctx context.Context, t *LabTest) error
	DeleteLabTest(ctx context.Context, id uuid.UUID) error

	// SetAppointmentVisited touches only the visited flag and status of an
	// active appointment. It reports whether one was found.
	SetAppointmentVisited(ctx context.Context, appointmentID uuid.UUID, visited bool, status appointment.Status) (bool, error)

	History(ctx context.Context, patientID uuid.UUID) ([]HistoryEntry, error)
	SearchPrescriptions(ctx context.Context, keyword string) ([]PrescriptionSummary, error)
	GetPrescriptionSummary(ctx context.Context, id uuid.UUID) (*PrescriptionSummary, error)
}
