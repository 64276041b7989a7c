package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/document"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/metrics"
)

var defaultPlaceholder = decimal.RequireFromString("0.01")

// Appointments returns active appointments only.
type Appointments interface {
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Medicines interface {
	Get(ctx context.Context, id uuid.UUID) (*inventory.Medicine, error)
}

type Service struct {
	repo         Repository
	appointments Appointments
	directory    directory.Lookup
	medicines    Medicines
	renderer     document.Renderer
	metrics      *metrics.Metrics
	log          zerolog.Logger
	cfg          config.Config
	now          func() time.Time
}

func NewService(
	repo Repository,
	appointments Appointments,
	dir directory.Lookup,
	medicines Medicines,
	renderer document.Renderer,
	m *metrics.Metrics,
	log zerolog.Logger,
	cfg config.Config,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		directory:    dir,
		medicines:    medicines,
		renderer:     renderer,
		metrics:      m,
		log:          log.With().Str("component", "billing").Logger(),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *Service) placeholder() decimal.Decimal {
	if s.cfg.BillingPlaceholder.IsPositive() {
		return s.cfg.BillingPlaceholder
	}
	return defaultPlaceholder
}

// consultationFee resolves the amount for an appointment bill: the
// appointment's own fee, then the practitioner's profile fee, then the base
// fee, then the placeholder.
func (s *Service) consultationFee(appt *appointment.Appointment, pr *directory.Practitioner) (decimal.Decimal, error) {
	if appt.Fee.Valid && appt.Fee.Decimal.IsPositive() {
		return appt.Fee.Decimal, nil
	}
	if fee, ok := pr.ConfiguredFee(); ok {
		return fee, nil
	}
	if s.cfg.BillingStrictFees {
		return decimal.Zero, ErrNoFeeConfigured
	}

	amount := s.placeholder()
	s.log.Warn().
		Str("appointment_id", appt.ID.String()).
		Str("practitioner_id", pr.ID.String()).
		Str("amount", amount.String()).
		Msg("no consultation fee configured, billing placeholder amount")
	return amount, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Billing, error) {
	b, err := s.create(ctx, in)
	s.metrics.RecordBill("consultation", metrics.OutcomeOf(err))
	return b, err
}

func (s *Service) create(ctx context.Context, in CreateInput) (*Billing, error) {
	status, err := ParseStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	b := Billing{
		ID:            uuid.New(),
		AppointmentID: in.AppointmentID,
		Amount:        in.Amount,
		Description:   strings.TrimSpace(in.Description),
		Status:        status,
		DueDate:       in.DueDate,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
	if status == StatusPaid {
		now := s.now().UTC()
		b.PaidDate = &now
	}

	if in.AppointmentID != nil {
		appt, err := s.appointments.Get(ctx, *in.AppointmentID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return nil, fmt.Errorf("%w: %s", ErrAppointmentUnavailable, *in.AppointmentID)
			}
			return nil, fmt.Errorf("load appointment: %w", err)
		}

		patient, err := s.directory.GetPatient(ctx, appt.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
		practitioner, err := s.directory.GetPractitioner(ctx, appt.PractitionerID)
		if err != nil {
			return nil, fmt.Errorf("load practitioner: %w", err)
		}

		snapshotPatient(&b, patient)
		b.PractitionerName = practitioner.Name

		if b.Amount.IsZero() {
			if b.Amount, err = s.consultationFee(appt, practitioner); err != nil {
				return nil, err
			}
		}
		if b.Description == "" {
			b.Description = fmt.Sprintf("Consultation fee for appointment on %s", appt.Date.Format(time.DateOnly))
		}
	} else {
		if in.PatientID == uuid.Nil {
			return nil, ErrPatientRequired
		}
		if !b.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		patient, err := s.directory.GetPatient(ctx, in.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
		snapshotPatient(&b, patient)
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("billing_id", created.ID.String()).
		Str("patient_id", created.PatientID.String()).
		Str("amount", created.Amount.StringFixed(2)).
		Msg("billing created")
	return created, nil
}

func snapshotPatient(b *Billing, p *directory.Patient) {
	b.PatientID = p.ID
	b.PatientName = p.Name
	b.PatientPhone = p.Phone
	b.PatientAddress = p.Address
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Billing, error) {
	return s.repo.Get(ctx, id)
}

// List returns every bill, newest first.
func (s *Service) List(ctx context.Context) ([]Billing, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Billing, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Billing, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

// Update overwrites every editable field. Moving to Paid without a paid date
// stamps the current time.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Billing, error) {
	status, err := ParseStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.PatientID == uuid.Nil {
		return nil, ErrPatientRequired
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := Billing{
		ID:               existing.ID,
		PatientID:        in.PatientID,
		AppointmentID:    in.AppointmentID,
		Amount:           in.Amount,
		Description:      strings.TrimSpace(in.Description),
		Status:           status,
		DueDate:          in.DueDate,
		PaidDate:         in.PaidDate,
		PaymentMethod:    in.PaymentMethod,
		Notes:            in.Notes,
		PatientName:      in.PatientName,
		PatientPhone:     in.PatientPhone,
		PatientAddress:   in.PatientAddress,
		PractitionerName: in.PractitionerName,
		CreatedAt:        existing.CreatedAt,
	}
	if next.Status == StatusPaid && next.PaidDate == nil {
		now := s.now().UTC()
		next.PaidDate = &now
	}

	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBillingNotFound
	}
	return nil
}

// CreatePharmacyBill prices each line at the medicine's selling price and
// takes the units out of stock together with the bill.
func (s *Service) CreatePharmacyBill(ctx context.Context, in PharmacyBillInput) (*PharmacyBill, error) {
	bill, err := s.createPharmacyBill(ctx, in)
	s.metrics.RecordBill("pharmacy", metrics.OutcomeOf(err))
	if err != nil {
		return nil, err
	}

	units := 0
	for _, it := range bill.Items {
		units += it.Quantity
	}
	s.metrics.RecordDispensed(units)
	s.log.Info().
		Str("pharmacy_bill_id", bill.ID.String()).
		Int("items", len(bill.Items)).
		Str("total", bill.Total.StringFixed(2)).
		Msg("pharmacy bill created")
	return bill, nil
}

func (s *Service) createPharmacyBill(ctx context.Context, in PharmacyBillInput) (*PharmacyBill, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyBill
	}

	bill := PharmacyBill{
		ID:        uuid.New(),
		PatientID: in.PatientID,
		Total:     decimal.Zero,
		BillDate:  s.now().UTC(),
	}
	if in.PatientID != nil {
		patient, err := s.directory.GetPatient(ctx, *in.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
		bill.PatientName = patient.Name
	}

	requested := make(map[uuid.UUID]int, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		requested[it.MedicineID] += it.Quantity
	}

	for _, it := range in.Items {
		med, err := s.medicines.Get(ctx, it.MedicineID)
		if errors.Is(err, inventory.ErrMedicineNotFound) || (err == nil && !med.Active) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMedicine, it.MedicineID)
		}
		if err != nil {
			return nil, fmt.Errorf("load medicine: %w", err)
		}
		if need := requested[it.MedicineID]; med.Stock < need {
			return nil, fmt.Errorf("%w: %s has %d, %d requested", inventory.ErrInsufficientStock, med.Name, med.Stock, need)
		}

		price := med.Price()
		line := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		bill.Items = append(bill.Items, PharmacyBillItem{
			ID:           uuid.New(),
			MedicineID:   med.ID,
			MedicineName: med.Name,
			Quantity:     it.Quantity,
			UnitPrice:    price,
			LineTotal:    line,
		})
		bill.Total = bill.Total.Add(line)
	}

	return s.repo.CreatePharmacyBill(ctx, bill)
}

func (s *Service) GetPharmacyBill(ctx context.Context, id uuid.UUID) (*PharmacyBill, error) {
	return s.repo.GetPharmacyBill(ctx, id)
}

func (s *Service) PharmacyBillPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	bill, err := s.repo.GetPharmacyBill(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := document.PharmacyBillDocument{
		Reference:   bill.ID.String(),
		BillDate:    bill.BillDate,
		PatientName: bill.PatientName,
		Total:       bill.Total,
	}
	for _, it := range bill.Items {
		doc.Lines = append(doc.Lines, document.PharmacyBillLine{
			MedicineName: it.MedicineName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineTotal:    it.LineTotal,
		})
	}
	return s.renderer.PharmacyBillPDF(doc)
}
