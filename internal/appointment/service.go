package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/metrics"
	redisclient "github.com/hackgods/clinicops/internal/redis"
	"github.com/hackgods/clinicops/internal/schedule"
)

const (
	EventAppointmentCreated     = "APPOINTMENT_CREATED"
	EventAppointmentUpdated     = "APPOINTMENT_UPDATED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentDeleted     = "APPOINTMENT_DELETED"
)

type Service struct {
	repo      Repository
	directory directory.Lookup
	locker    redisclient.Locker
	metrics   *metrics.Metrics
	log       zerolog.Logger
	cfg       config.Config
	now       func() time.Time
}

func NewService(repo Repository, dir directory.Lookup, locker redisclient.Locker, m *metrics.Metrics, log zerolog.Logger, cfg config.Config) *Service {
	return &Service{
		repo:      repo,
		directory: dir,
		locker:    locker,
		metrics:   m,
		log:       log.With().Str("component", "appointment").Logger(),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *Service) today() time.Time {
	return DateOnly(s.now().In(s.cfg.Loc()))
}

func slotLockKey(practitionerID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("slot:%s:%s:%s", practitionerID, date.Format(time.DateOnly), slot)
}

// IsSlotAvailable is true when no other active appointment holds the exact
// practitioner, date and slot. exclude skips one appointment id.
func (s *Service) IsSlotAvailable(ctx context.Context, practitionerID uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error) {
	normalized, err := schedule.NormalizeSlot(slot)
	if err != nil {
		return false, ErrInvalidSlot
	}
	taken, err := s.repo.SlotTaken(ctx, practitionerID, DateOnly(date), normalized, exclude)
	if err != nil {
		return false, fmt.Errorf("check slot availability: %w", err)
	}
	return !taken, nil
}

// NextTokenNumber is the token the next booking for practitioner+date would
// get. It is not reserved.
func (s *Service) NextTokenNumber(ctx context.Context, practitionerID uuid.UUID, date time.Time) (int, error) {
	highest, err := s.repo.MaxToken(ctx, practitionerID, DateOnly(date))
	if err != nil {
		return 0, fmt.Errorf("next token: %w", err)
	}
	return highest + 1, nil
}

// CreateAppointment books a slot. The slot is held by a distributed lock
// while the repository re-checks it and assigns the token.
func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (*AppointmentDetail, error) {
	created, err := s.create(ctx, in)
	s.metrics.RecordBooking("create", metrics.OutcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, created), nil
}

// reload fetches live display data for a row that is already committed. A
// failed read falls back to the row's own snapshots so the caller never sees
// an error for a write that went through.
func (s *Service) reload(ctx context.Context, a *Appointment) *AppointmentDetail {
	d, err := s.repo.GetDetail(ctx, a.ID)
	if err == nil {
		return d
	}
	s.log.Warn().Err(err).
		Str("appointment_id", a.ID.String()).
		Msg("reload after write failed, returning snapshot")
	return &AppointmentDetail{
		Appointment:             *a,
		CurrentPatientName:      a.PatientName,
		CurrentPractitionerName: a.PractitionerName,
	}
}

func (s *Service) create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil || in.PractitionerID == uuid.Nil {
		return nil, ErrMissingReference
	}

	date := DateOnly(in.Date)
	if date.Before(s.today()) {
		return nil, ErrPastDate
	}

	slot, err := schedule.NormalizeSlot(in.TimeSlot)
	if err != nil {
		return nil, ErrInvalidSlot
	}

	available, err := s.IsSlotAvailable(ctx, in.PractitionerID, date, slot, nil)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotTaken
	}

	patient, err := s.directory.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	practitioner, err := s.directory.GetPractitioner(ctx, in.PractitionerID)
	if err != nil {
		return nil, fmt.Errorf("load practitioner: %w", err)
	}

	consultationType := in.ConsultationType
	if consultationType == "" {
		consultationType = DefaultConsultationType
	}

	appt := Appointment{
		ID:               uuid.New(),
		PatientID:        patient.ID,
		PractitionerID:   practitioner.ID,
		Date:             date,
		TimeSlot:         slot,
		Status:           StatusScheduled,
		Visited:          false,
		Reason:           in.Reason,
		ConsultationType: consultationType,
		Active:           true,
	}
	snapshotPatient(&appt, patient)
	appt.PractitionerName = practitioner.Name
	if fee, ok := practitioner.ConfiguredFee(); ok {
		appt.Fee = decimal.NullDecimal{Decimal: fee, Valid: true}
	}

	var created *Appointment
	err = s.locker.WithLock(ctx, slotLockKey(appt.PractitionerID, date, slot), func(lockCtx context.Context) error {
		a, err := s.repo.Create(lockCtx, appt)
		if err != nil {
			return err
		}
		created = a

		s.logEvent(lockCtx, a.ID, EventAppointmentCreated, map[string]any{
			"practitioner_id": a.PractitionerID.String(),
			"patient_id":      a.PatientID.String(),
			"date":            a.Date.Format(time.DateOnly),
			"time_slot":       a.TimeSlot,
			"token_no":        a.TokenNo,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", created.ID.String()).
		Str("practitioner_id", created.PractitionerID.String()).
		Str("date", created.Date.Format(time.DateOnly)).
		Str("time_slot", created.TimeSlot).
		Int("token_no", created.TokenNo).
		Msg("appointment booked")

	return created, nil
}

func snapshotPatient(a *Appointment, p *directory.Patient) {
	a.PatientID = p.ID
	a.PatientMRN = p.MRN
	a.PatientName = p.Name
	a.PatientPhone = p.Phone
	a.PatientAddress = p.Address
}

// UpdateAppointment reschedules and/or changes status. Moving to another
// practitioner or date issues a new token; moving within the same day keeps it.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateInput) (*AppointmentDetail, error) {
	updated, err := s.update(ctx, id, in)
	s.metrics.RecordBooking("update", metrics.OutcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, updated), nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *existing

	if in.PatientID != uuid.Nil {
		next.PatientID = in.PatientID
	}
	if in.PractitionerID != uuid.Nil {
		next.PractitionerID = in.PractitionerID
	}
	if !in.Date.IsZero() {
		next.Date = DateOnly(in.Date)
	}
	if in.TimeSlot != "" {
		slot, err := schedule.NormalizeSlot(in.TimeSlot)
		if err != nil {
			return nil, ErrInvalidSlot
		}
		next.TimeSlot = slot
	}
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		next.Status = st
		next.Visited = st.Visited()
	}
	if in.Reason != nil {
		next.Reason = in.Reason
	}
	if in.ConsultationType != "" {
		next.ConsultationType = in.ConsultationType
	}

	dayChanged := next.PractitionerID != existing.PractitionerID || !next.Date.Equal(existing.Date)
	moved := dayChanged || next.TimeSlot != existing.TimeSlot

	if moved {
		available, err := s.IsSlotAvailable(ctx, next.PractitionerID, next.Date, next.TimeSlot, &existing.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrSlotTaken
		}
	}

	if next.PatientID != existing.PatientID {
		patient, err := s.directory.GetPatient(ctx, next.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
		snapshotPatient(&next, patient)
	}
	if next.PractitionerID != existing.PractitionerID {
		practitioner, err := s.directory.GetPractitioner(ctx, next.PractitionerID)
		if err != nil {
			return nil, fmt.Errorf("load practitioner: %w", err)
		}
		next.PractitionerName = practitioner.Name
	}

	write := func(ctx context.Context) (*Appointment, error) {
		return s.repo.Update(ctx, next, UpdateOptions{ReassignToken: dayChanged, SetStatus: in.Status != ""})
	}

	var updated *Appointment
	if moved {
		err = s.locker.WithLock(ctx, slotLockKey(next.PractitionerID, next.Date, next.TimeSlot), func(lockCtx context.Context) error {
			updated, err = write(lockCtx)
			return err
		})
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
	} else {
		updated, err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	event := EventAppointmentUpdated
	payload := map[string]any{"status": string(updated.Status)}
	if moved {
		event = EventAppointmentRescheduled
		payload["from_date"] = existing.Date.Format(time.DateOnly)
		payload["from_slot"] = existing.TimeSlot
		payload["to_date"] = updated.Date.Format(time.DateOnly)
		payload["to_slot"] = updated.TimeSlot
		payload["token_no"] = updated.TokenNo
	}
	s.logEvent(ctx, updated.ID, event, payload)

	return updated, nil
}

// DeleteAppointment soft deletes. It reports false when the appointment is
// missing or already inactive.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.SoftDelete(ctx, id)
	s.metrics.RecordBooking("delete", metrics.OutcomeOf(err))
	if err != nil {
		return false, err
	}
	if ok {
		s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	}
	return ok, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("event", eventType).
			Str("appointment_id", appointmentID.String()).
			Msg("failed to insert event log")
	}
}

// GetAppointment retrieves an active appointment with live display data.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]AppointmentDetail, error) {
	return s.list(ctx, Filter{})
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]AppointmentDetail, error) {
	d := DateOnly(date)
	return s.list(ctx, Filter{From: &d, To: &d})
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error) {
	return s.list(ctx, Filter{PatientID: &patientID})
}

func (s *Service) ListByPractitionerDate(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]AppointmentDetail, error) {
	d := DateOnly(date)
	return s.list(ctx, Filter{PractitionerID: &practitionerID, From: &d, To: &d})
}

func (s *Service) ListByPractitionerRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]AppointmentDetail, error) {
	f, t := DateOnly(from), DateOnly(to)
	if f.After(t) {
		return nil, ErrInvalidRange
	}
	return s.list(ctx, Filter{PractitionerID: &practitionerID, From: &f, To: &t})
}

// ListPending returns the not yet visited queue of a practitioner for a day.
func (s *Service) ListPending(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]AppointmentDetail, error) {
	d := DateOnly(date)
	return s.list(ctx, Filter{PractitionerID: &practitionerID, From: &d, To: &d, PendingOnly: true})
}

func (s *Service) list(ctx context.Context, f Filter) ([]AppointmentDetail, error) {
	appointments, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}
