package consultation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MealBeforeFood = "Before Food"
	MealAfterFood  = "After Food"
)

const (
	LabStatusPending   = "Pending"
	LabStatusCompleted = "Completed"
)

type Consultation struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	AppointmentID  uuid.UUID
	BookedAt       time.Time
	ChiefComplaint string
	Symptoms       string
	Diagnosis      string
	Notes          string
	FollowUpDate   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Prescription struct {
	ID             uuid.UUID
	ConsultationID uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	CreatedAt      time.Time
}

type PrescriptionItem struct {
	ID             uuid.UUID
	PrescriptionID uuid.UUID
	Position       int
	MedicineID     uuid.UUID
	MedicineName   string // filled on reads only
	DoseMorning    int
	DoseNoon       int
	DoseEvening    int
	MealTime       string
	DurationDays   int
	Quantity       *int
	Dosage         *int
}

type LabTest struct {
	ID             uuid.UUID
	ConsultationID uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	TestName       string
	Status         string
	Result         *string
	RequestedAt    time.Time
	CompletedAt    *time.Time
}

// Detail is a consultation with everything it owns.
type Detail struct {
	Consultation
	Prescription *Prescription
	Items        []PrescriptionItem
	LabTests     []LabTest
}

type MedicineLine struct {
	MedicineID   uuid.UUID
	DoseMorning  int
	DoseNoon     int
	DoseEvening  int
	MealTime     string
	DurationDays int
	Quantity     *int
	Dosage       *int
}

type Request struct {
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	AppointmentID  uuid.UUID

	ChiefComplaint string
	Symptoms       string
	Diagnosis      string
	Notes          string
	FollowUpDate   *time.Time

	Medicines []MedicineLine
	LabTests  []string
}

// normalize trims lab test names and fills default meal times.
func (r *Request) normalize() error {
	for i := range r.Medicines {
		m := &r.Medicines[i]
		if m.MedicineID == uuid.Nil {
			return ErrInvalidMedicineLine
		}
		if m.DoseMorning < 0 || m.DoseNoon < 0 || m.DoseEvening < 0 || m.DurationDays < 0 {
			return ErrInvalidMedicineLine
		}
		if m.Quantity != nil && *m.Quantity < 0 {
			return ErrInvalidMedicineLine
		}
		switch strings.TrimSpace(m.MealTime) {
		case "":
			m.MealTime = MealAfterFood
		case MealBeforeFood, MealAfterFood:
			m.MealTime = strings.TrimSpace(m.MealTime)
		default:
			return ErrInvalidMealTime
		}
	}
	for i, name := range r.LabTests {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrInvalidLabTest
		}
		r.LabTests[i] = name
	}
	return nil
}

type HistoryEntry struct {
	ConsultationID   uuid.UUID
	AppointmentID    uuid.UUID
	VisitDate        time.Time
	PractitionerName string
	ChiefComplaint   string
	Symptoms         string
	Diagnosis        string
	Notes            string
	FollowUpDate     *time.Time
}

type HistoryDetail struct {
	HistoryEntry
	Medicines []PrescriptionItem
	LabTests  []string
}

type LabTestUpdate struct {
	TestName string
	Status   string
	Result   *string
}

type PrescriptionSummary struct {
	ID               uuid.UUID
	ConsultationID   uuid.UUID
	PatientName      string
	PractitionerName string
	Diagnosis        string
	IssuedAt         time.Time
}

type PrescriptionDetails struct {
	PrescriptionSummary
	Items []PrescriptionItem
}
