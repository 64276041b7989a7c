package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinicops/internal/directory"
)

type Service struct {
	repo      Repository
	booked    BookedSlots
	directory directory.Lookup
	log       zerolog.Logger
}

func NewService(repo Repository, booked BookedSlots, dir directory.Lookup, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		booked:    booked,
		directory: dir,
		log:       log.With().Str("component", "schedule").Logger(),
	}
}

func (s *Service) validate(ctx context.Context, in Input, selfID uuid.UUID) (Schedule, error) {
	day, err := ParseWeekday(in.Day)
	if err != nil {
		return Schedule{}, err
	}

	start, err := NormalizeSlot(in.StartTime)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	end, err := NormalizeSlot(in.EndTime)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if start >= end {
		return Schedule{}, ErrInvalidWindow
	}

	if _, err := s.directory.GetPractitioner(ctx, in.PractitionerID); err != nil {
		return Schedule{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	sched := Schedule{
		ID:             selfID,
		PractitionerID: in.PractitionerID,
		Day:            day,
		StartTime:      start,
		EndTime:        end,
		Active:         active,
	}

	if active {
		if err := s.checkOverlap(ctx, sched); err != nil {
			return Schedule{}, err
		}
	}

	return sched, nil
}

// checkOverlap rejects a window intersecting another active window of the
// same practitioner and day.
func (s *Service) checkOverlap(ctx context.Context, sched Schedule) error {
	existing, err := s.repo.ActiveForDay(ctx, sched.PractitionerID, sched.Day)
	if err != nil {
		return fmt.Errorf("load schedules for overlap check: %w", err)
	}

	start, _ := ParseClock(sched.StartTime)
	end, _ := ParseClock(sched.EndTime)

	for _, other := range existing {
		if other.ID == sched.ID {
			continue
		}
		oStart, err1 := ParseClock(other.StartTime)
		oEnd, err2 := ParseClock(other.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if start < oEnd && oStart < end {
			return fmt.Errorf("%w: %s-%s", ErrWindowOverlap, other.StartTime, other.EndTime)
		}
	}
	return nil
}

func (s *Service) CreateSchedule(ctx context.Context, in Input) (*Schedule, error) {
	sched, err := s.validate(ctx, in, uuid.New())
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, sched)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("schedule_id", created.ID.String()).
		Str("practitioner_id", created.PractitionerID.String()).
		Str("day", string(created.Day)).
		Msg("schedule created")

	return created, nil
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateSchedule(ctx context.Context, id uuid.UUID, in Input) (*Schedule, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	sched, err := s.validate(ctx, in, id)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, sched)
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]Schedule, error) {
	return s.repo.ListByPractitioner(ctx, practitionerID)
}

// AvailableSlots returns the free slot labels of a practitioner on date.
// Failures are logged and yield an empty list: empty means availability
// could not be asserted, not that the day is full.
func (s *Service) AvailableSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) []string {
	day := WeekdayOf(date)

	windows, err := s.repo.ActiveForDay(ctx, practitionerID, day)
	if err != nil {
		s.log.Warn().Err(err).
			Str("practitioner_id", practitionerID.String()).
			Str("date", date.Format(time.DateOnly)).
			Msg("load schedule windows failed")
		return []string{}
	}
	if len(windows) == 0 {
		return []string{}
	}

	booked, err := s.booked.BookedSlots(ctx, practitionerID, date)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).
				Str("practitioner_id", practitionerID.String()).
				Str("date", date.Format(time.DateOnly)).
				Msg("load booked slots failed")
		}
		return []string{}
	}

	ws := make([]Window, len(windows))
	for i, w := range windows {
		ws[i] = w.Window()
	}

	return GenerateSlots(ws, booked)
}
