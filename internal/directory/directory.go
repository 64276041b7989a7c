// Package directory resolves patients and practitioners by id. Their CRUD
// lives elsewhere; this package only reads the display fields the clinical
// workflows snapshot.
package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/apperr"
)

var (
	ErrPatientNotFound      = apperr.NotFound("patient_not_found", "patient not found")
	ErrPractitionerNotFound = apperr.NotFound("practitioner_not_found", "practitioner not found")
)

type Patient struct {
	ID        uuid.UUID
	MRN       string
	Name      string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Practitioner struct {
	ID             uuid.UUID
	Name           string
	Specialization *string
	BaseFee        decimal.Decimal
	ProfileFee     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConfiguredFee is the profile fee when positive, else the base fee when
// positive. ok is false when neither is set.
func (p Practitioner) ConfiguredFee() (fee decimal.Decimal, ok bool) {
	if p.ProfileFee.IsPositive() {
		return p.ProfileFee, true
	}
	if p.BaseFee.IsPositive() {
		return p.BaseFee, true
	}
	return decimal.Zero, false
}

// Lookup is the read contract consumed by booking, consultations and billing.
type Lookup interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPractitioner(ctx context.Context, id uuid.UUID) (*Practitioner, error)
}
