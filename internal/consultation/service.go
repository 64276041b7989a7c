package consultation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/document"
	"github.com/hackgods/clinicops/internal/metrics"
)

type Service struct {
	store     Store
	directory directory.Lookup
	renderer  document.Renderer
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(store Store, dir directory.Lookup, renderer document.Renderer, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		directory: dir,
		renderer:  renderer,
		metrics:   m,
		log:       log.With().Str("component", "consultation").Logger(),
		now:       time.Now,
	}
}

func buildItems(prescriptionID uuid.UUID, lines []MedicineLine) []PrescriptionItem {
	items := make([]PrescriptionItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, PrescriptionItem{
			ID:             uuid.New(),
			PrescriptionID: prescriptionID,
			Position:       i + 1,
			MedicineID:     l.MedicineID,
			DoseMorning:    l.DoseMorning,
			DoseNoon:       l.DoseNoon,
			DoseEvening:    l.DoseEvening,
			MealTime:       l.MealTime,
			DurationDays:   l.DurationDays,
			Quantity:       l.Quantity,
			Dosage:         l.Dosage,
		})
	}
	return items
}

func (s *Service) buildLabTests(c *Consultation, names []string) []LabTest {
	requestedAt := s.now().UTC()
	tests := make([]LabTest, 0, len(names))
	for _, name := range names {
		tests = append(tests, LabTest{
			ID:             uuid.New(),
			ConsultationID: c.ID,
			PatientID:      c.PatientID,
			PractitionerID: c.PractitionerID,
			TestName:       name,
			Status:         LabStatusPending,
			RequestedAt:    requestedAt,
		})
	}
	return tests
}

// Add records a consultation with its prescription and lab test requests
// and marks the appointment visited, all in one transaction.
func (s *Service) Add(ctx context.Context, req Request) (*Detail, error) {
	d, err := s.add(ctx, req)
	s.metrics.RecordConsultation("add", metrics.OutcomeOf(err))
	return d, err
}

func (s *Service) add(ctx context.Context, req Request) (*Detail, error) {
	if req.PatientID == uuid.Nil || req.PractitionerID == uuid.Nil || req.AppointmentID == uuid.Nil {
		return nil, ErrMissingReference
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetPatient(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if _, err := s.directory.GetPractitioner(ctx, req.PractitionerID); err != nil {
		return nil, fmt.Errorf("load practitioner: %w", err)
	}

	c := &Consultation{
		ID:             uuid.New(),
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		AppointmentID:  req.AppointmentID,
		BookedAt:       s.now().UTC(),
		ChiefComplaint: req.ChiefComplaint,
		Symptoms:       req.Symptoms,
		Diagnosis:      req.Diagnosis,
		Notes:          req.Notes,
		FollowUpDate:   dateOnlyPtr(req.FollowUpDate),
	}

	var visited bool
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.InsertConsultation(ctx, c); err != nil {
			return err
		}

		if len(req.Medicines) > 0 {
			p := &Prescription{
				ID:             uuid.New(),
				ConsultationID: c.ID,
				PatientID:      c.PatientID,
				PractitionerID: c.PractitionerID,
			}
			if err := tx.InsertPrescription(ctx, p); err != nil {
				return err
			}
			if err := tx.InsertPrescriptionItems(ctx, buildItems(p.ID, req.Medicines)); err != nil {
				return err
			}
		}

		if err := tx.InsertLabTests(ctx, s.buildLabTests(c, req.LabTests)); err != nil {
			return err
		}

		var err error
		visited, err = tx.SetAppointmentVisited(ctx, c.AppointmentID, true, appointment.StatusVisited)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !visited {
		s.log.Warn().
			Str("consultation_id", c.ID.String()).
			Str("appointment_id", c.AppointmentID.String()).
			Msg("consultation recorded without an active appointment")
	}
	s.log.Info().
		Str("consultation_id", c.ID.String()).
		Int("medicines", len(req.Medicines)).
		Int("lab_tests", len(req.LabTests)).
		Msg("consultation added")

	return s.Get(ctx, c.ID)
}

// Update overwrites the clinical notes and replaces every prescription item
// and lab test request with the ones in req.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req Request) (*Detail, error) {
	d, err := s.update(ctx, id, req)
	s.metrics.RecordConsultation("update", metrics.OutcomeOf(err))
	return d, err
}

func (s *Service) update(ctx context.Context, id uuid.UUID, req Request) (*Detail, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.GetConsultation(ctx, id)
		if err != nil {
			return err
		}

		c.ChiefComplaint = req.ChiefComplaint
		c.Symptoms = req.Symptoms
		c.Diagnosis = req.Diagnosis
		c.Notes = req.Notes
		c.FollowUpDate = dateOnlyPtr(req.FollowUpDate)
		if err := tx.UpdateConsultation(ctx, c); err != nil {
			return err
		}

		p, err := tx.PrescriptionByConsultation(ctx, c.ID)
		switch {
		case errors.Is(err, ErrPrescriptionNotFound):
			if len(req.Medicines) > 0 {
				p = &Prescription{ID: uuid.New(), ConsultationID: c.ID, PatientID: c.PatientID, PractitionerID: c.PractitionerID}
				if err := tx.InsertPrescription(ctx, p); err != nil {
					return err
				}
			}
		case err != nil:
			return err
		}

		if p != nil {
			if err := tx.DeletePrescriptionItems(ctx, p.ID); err != nil {
				return err
			}
			if err := tx.InsertPrescriptionItems(ctx, buildItems(p.ID, req.Medicines)); err != nil {
				return err
			}
		}

		if err := tx.DeleteLabTestsByConsultation(ctx, c.ID); err != nil {
			return err
		}
		return tx.InsertLabTests(ctx, s.buildLabTests(c, req.LabTests))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("consultation_id", id.String()).Msg("consultation updated")
	return s.Get(ctx, id)
}

// Delete removes a consultation with everything it owns and puts the
// appointment back to Scheduled.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.GetConsultation(ctx, id)
		if err != nil {
			return err
		}

		p, err := tx.PrescriptionByConsultation(ctx, c.ID)
		switch {
		case errors.Is(err, ErrPrescriptionNotFound):
		case err != nil:
			return err
		default:
			if err := tx.DeletePrescriptionItems(ctx, p.ID); err != nil {
				return err
			}
			if err := tx.DeletePrescription(ctx, p.ID); err != nil {
				return err
			}
		}

		if err := tx.DeleteLabTestsByConsultation(ctx, c.ID); err != nil {
			return err
		}
		if err := tx.DeleteConsultation(ctx, c.ID); err != nil {
			return err
		}
		_, err = tx.SetAppointmentVisited(ctx, c.AppointmentID, false, appointment.StatusScheduled)
		return err
	})
	s.metrics.RecordConsultation("delete", metrics.OutcomeOf(err))
	if err != nil {
		return err
	}

	s.log.Info().Str("consultation_id", id.String()).Msg("consultation deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	c, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Consultation: *c, Items: []PrescriptionItem{}}

	p, err := s.store.PrescriptionByConsultation(ctx, id)
	switch {
	case errors.Is(err, ErrPrescriptionNotFound):
	case err != nil:
		return nil, err
	default:
		d.Prescription = p
		if d.Items, err = s.store.ItemsByPrescription(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	if d.LabTests, err = s.store.LabTestsByConsultation(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// History lists a patient's consultations, newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]HistoryEntry, error) {
	entries, err := s.store.History(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient history: %w", err)
	}
	return entries, nil
}

// DetailedHistory is History with prescribed medicines and lab test names.
func (s *Service) DetailedHistory(ctx context.Context, patientID uuid.UUID) ([]HistoryDetail, error) {
	entries, err := s.History(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryDetail, 0, len(entries))
	for _, e := range entries {
		d, err := s.Get(ctx, e.ConsultationID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(d.LabTests))
		for _, t := range d.LabTests {
			names = append(names, t.TestName)
		}
		out = append(out, HistoryDetail{HistoryEntry: e, Medicines: d.Items, LabTests: names})
	}
	return out, nil
}

func (s *Service) LabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]LabTest, error) {
	return s.store.LabTestsByPatient(ctx, patientID)
}

// UpdateLabTest edits name, status and result. The first move to Completed
// stamps the completion time; later edits keep it.
func (s *Service) UpdateLabTest(ctx context.Context, id uuid.UUID, in LabTestUpdate) (*LabTest, error) {
	name := strings.TrimSpace(in.TestName)
	if name == "" {
		return nil, ErrInvalidLabTest
	}

	t, err := s.store.GetLabTest(ctx, id)
	if err != nil {
		return nil, err
	}

	t.TestName = name
	if status := strings.TrimSpace(in.Status); status != "" {
		t.Status = status
	}
	t.Result = in.Result
	if t.Status == LabStatusCompleted && t.CompletedAt == nil {
		now := s.now().UTC()
		t.CompletedAt = &now
	}

	if err := s.store.UpdateLabTest(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteLabTest(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteLabTest(ctx, id)
}

// SearchPrescriptions matches patient or practitioner names.
func (s *Service) SearchPrescriptions(ctx context.Context, keyword string) ([]PrescriptionSummary, error) {
	return s.store.SearchPrescriptions(ctx, strings.TrimSpace(keyword))
}

func (s *Service) PrescriptionDetails(ctx context.Context, id uuid.UUID) (*PrescriptionDetails, error) {
	summary, err := s.store.GetPrescriptionSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ItemsByPrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PrescriptionDetails{PrescriptionSummary: *summary, Items: items}, nil
}

func (s *Service) PrescriptionPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	p, err := s.PrescriptionDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := document.PrescriptionDocument{
		Reference:        p.ID.String(),
		IssuedAt:         p.IssuedAt,
		PatientName:      p.PatientName,
		PractitionerName: p.PractitionerName,
		Diagnosis:        p.Diagnosis,
	}
	for _, it := range p.Items {
		doc.Lines = append(doc.Lines, document.PrescriptionLine{
			MedicineName: it.MedicineName,
			Morning:      it.DoseMorning,
			Noon:         it.DoseNoon,
			Evening:      it.DoseEvening,
			MealTime:     it.MealTime,
			DurationDays: it.DurationDays,
			Quantity:     it.Quantity,
			Dosage:       it.Dosage,
		})
	}
	return s.renderer.PrescriptionPDF(doc)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := appointment.DateOnly(*t)
	return &d
}
