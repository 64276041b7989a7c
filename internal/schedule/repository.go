package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
)

var (
	ErrScheduleNotFound = apperr.NotFound("schedule_not_found", "schedule not found")
	ErrInvalidWindow    = apperr.Invalid("invalid_window", "start time must be before end time")
	ErrWindowOverlap    = apperr.Conflict("schedule_overlap", "window overlaps an active schedule for the same day")
)

type Repository interface {
	Insert(ctx context.Context, s Schedule) (*Schedule, error)
	Get(ctx context.Context, id uuid.UUID) (*Schedule, error)
	Update(ctx context.Context, s Schedule) (*Schedule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]Schedule, error)

	// ActiveForDay feeds slot generation and overlap checks.
	ActiveForDay(ctx context.Context, practitionerID uuid.UUID, day Weekday) ([]Schedule, error)
}

// BookedSlots reports slot labels already held by active appointments.
type BookedSlots interface {
	BookedSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]string, error)
}
