package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus accepts the known statuses; empty means Pending.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "":
		return StatusPending, nil
	case StatusPending, StatusPaid, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Billing struct {
	ID            uuid.UUID
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Amount        decimal.Decimal
	Description   string
	Status        Status
	DueDate       *time.Time
	PaidDate      *time.Time
	PaymentMethod *string
	Notes         *string

	// Copied at write time.
	PatientName      string
	PatientPhone     *string
	PatientAddress   *string
	PractitionerName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateInput struct {
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Amount        decimal.Decimal // zero means derive from the appointment
	Description   string
	Status        string
	DueDate       *time.Time
	PaymentMethod *string
	Notes         *string
}

// UpdateInput replaces every editable field of a bill.
type UpdateInput struct {
	PatientID        uuid.UUID
	AppointmentID    *uuid.UUID
	Amount           decimal.Decimal
	Description      string
	Status           string
	DueDate          *time.Time
	PaidDate         *time.Time
	PaymentMethod    *string
	Notes            *string
	PatientName      string
	PatientPhone     *string
	PatientAddress   *string
	PractitionerName string
}

type PharmacyBill struct {
	ID          uuid.UUID
	PatientID   *uuid.UUID
	PatientName string
	Total       decimal.Decimal
	BillDate    time.Time
	Items       []PharmacyBillItem
}

type PharmacyBillItem struct {
	ID             uuid.UUID
	PharmacyBillID uuid.UUID
	MedicineID     uuid.UUID
	MedicineName   string
	Quantity       int
	UnitPrice      decimal.Decimal
	LineTotal      decimal.Decimal
}

type PharmacyItemInput struct {
	MedicineID uuid.UUID
	Quantity   int
}

type PharmacyBillInput struct {
	PatientID *uuid.UUID
	Items     []PharmacyItemInput
}
