package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
)

var (
	ErrBillingNotFound        = apperr.NotFound("billing_not_found", "billing not found")
	ErrPharmacyBillNotFound   = apperr.NotFound("pharmacy_bill_not_found", "pharmacy bill not found")
	ErrAppointmentUnavailable = apperr.Invalid("appointment_unavailable", "appointment not found or is inactive")
	ErrPatientRequired        = apperr.Invalid("patient_required", "patient is required when billing without an appointment")
	ErrInvalidAmount          = apperr.Invalid("invalid_amount", "amount must be greater than 0")
	ErrInvalidStatus          = apperr.Invalid("invalid_status", "status must be Pending, Paid or Cancelled")
	ErrNoFeeConfigured        = apperr.Invalid("no_fee_configured", "no consultation fee is configured for this appointment")
	ErrEmptyBill              = apperr.Invalid("empty_bill", "bill must contain at least one item")
	ErrInvalidQuantity        = apperr.Invalid("invalid_quantity", "item quantity must be positive")
	ErrUnknownMedicine        = apperr.Invalid("unknown_medicine", "medicine not found or inactive")
)

type Repository interface {
	Create(ctx context.Context, b Billing) (*Billing, error)
	Get(ctx context.Context, id uuid.UUID) (*Billing, error)
	List(ctx context.Context) ([]Billing, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Billing, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Billing, error)
	Update(ctx context.Context, b Billing) (*Billing, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// CreatePharmacyBill stores the header and items and takes every item
	// out of stock in one transaction. Any failed decrement aborts the bill.
	CreatePharmacyBill(ctx context.Context, bill PharmacyBill) (*PharmacyBill, error)
	GetPharmacyBill(ctx context.Context, id uuid.UUID) (*PharmacyBill, error)
}
