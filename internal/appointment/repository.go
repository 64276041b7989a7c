package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
)

var (
	ErrAppointmentNotFound = apperr.NotFound("appointment_not_found", "appointment not found")
	ErrSlotTaken           = apperr.Conflict("slot_taken", "time slot is already booked for this practitioner and date")
	ErrSlotBeingBooked     = apperr.Conflict("slot_being_booked", "slot is currently being booked, please retry")
	ErrTokenConflict       = apperr.Conflict("token_conflict", "token number was taken concurrently, please retry")
	ErrPastDate            = apperr.Invalid("past_date", "appointment date cannot be in the past")
	ErrInvalidStatus       = apperr.Invalid("invalid_status", "status must be one of Scheduled, Visited, Completed, Cancelled")
	ErrInvalidSlot         = apperr.Invalid("invalid_time_slot", "time slot must be HH:MM")
	ErrInvalidRange        = apperr.Invalid("invalid_range", "range start must not be after range end")
	ErrMissingReference    = apperr.Invalid("missing_reference", "patient and practitioner are required")
)

// Repository is the only writer of appointment rows. Every read applies the
// active-only scope.
type UpdateOptions struct {
	ReassignToken bool
	SetStatus     bool
}

type Repository interface {
	SlotTaken(ctx context.Context, practitionerID uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error)
	MaxToken(ctx context.Context, practitionerID uuid.UUID, date time.Time) (int, error)

	// Create re-checks the slot and assigns max+1 as token under a lock on
	// (practitioner, date), then inserts.
	Create(ctx context.Context, a Appointment) (*Appointment, error)
	// Update re-checks the slot excluding a itself and, when ReassignToken
	// is set, gives it the next token of its (possibly new) practitioner+date.
	// Status and visited are only written when SetStatus is set; otherwise the
	// stored values win, since consultations flip them concurrently.
	Update(ctx context.Context, a Appointment, opts UpdateOptions) (*Appointment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	Get(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)
	List(ctx context.Context, f Filter) ([]AppointmentDetail, error)
	BookedSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]string, error)

	InsertEvent(ctx context.Context, ev EventLog) error
}
