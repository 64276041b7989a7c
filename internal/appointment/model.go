package appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusVisited   Status = "Visited"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusVisited, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Visited reports whether the status means the patient has been seen.
func (s Status) Visited() bool {
	return s == StatusVisited || s == StatusCompleted
}

const DefaultConsultationType = "General"

type Appointment struct {
	ID               uuid.UUID
	PatientID        uuid.UUID
	PractitionerID   uuid.UUID
	Date             time.Time
	TimeSlot         string
	TokenNo          int
	Status           Status
	Visited          bool
	Reason           *string
	ConsultationType string
	Fee              decimal.NullDecimal
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Copied at write time and never refreshed.
	PatientMRN       string
	PatientName      string
	PatientPhone     *string
	PatientAddress   *string
	PractitionerName string
}

// AppointmentDetail carries the live patient and practitioner display data
// next to the snapshot.
type AppointmentDetail struct {
	Appointment
	CurrentPatientName      string
	CurrentPractitionerName string
	Specialization          *string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

type CreateInput struct {
	PatientID        uuid.UUID
	PractitionerID   uuid.UUID
	Date             time.Time
	TimeSlot         string
	Reason           *string
	ConsultationType string
}

type UpdateInput struct {
	PatientID        uuid.UUID
	PractitionerID   uuid.UUID
	Date             time.Time
	TimeSlot         string
	Status           string
	Reason           *string
	ConsultationType string
}

// Filter selects active appointments. Zero fields are ignored.
type Filter struct {
	PatientID      *uuid.UUID
	PractitionerID *uuid.UUID
	From           *time.Time
	To             *time.Time
	PendingOnly    bool
}

// DateOnly truncates t to its calendar date in UTC, dropping any zone.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
