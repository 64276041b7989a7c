package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/auth"
	"github.com/hackgods/clinicops/internal/billing"
	"github.com/hackgods/clinicops/internal/consultation"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/metrics"
	"github.com/hackgods/clinicops/internal/schedule"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, in schedule.Input) (*schedule.Schedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*schedule.Schedule, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, in schedule.Input) (*schedule.Schedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]schedule.Schedule, error)
	AvailableSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) []string
}

type AppointmentService interface {
	CreateAppointment(ctx context.Context, in appointment.CreateInput) (*appointment.AppointmentDetail, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, in appointment.UpdateInput) (*appointment.AppointmentDetail, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) (bool, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.AppointmentDetail, error)
	ListAll(ctx context.Context) ([]appointment.AppointmentDetail, error)
	ListByDate(ctx context.Context, date time.Time) ([]appointment.AppointmentDetail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.AppointmentDetail, error)
	ListByPractitionerDate(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]appointment.AppointmentDetail, error)
	ListByPractitionerRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]appointment.AppointmentDetail, error)
	ListPending(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]appointment.AppointmentDetail, error)
	IsSlotAvailable(ctx context.Context, practitionerID uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error)
}

type ConsultationService interface {
	Add(ctx context.Context, req consultation.Request) (*consultation.Detail, error)
	Update(ctx context.Context, id uuid.UUID, req consultation.Request) (*consultation.Detail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*consultation.Detail, error)
	History(ctx context.Context, patientID uuid.UUID) ([]consultation.HistoryEntry, error)
	DetailedHistory(ctx context.Context, patientID uuid.UUID) ([]consultation.HistoryDetail, error)
	LabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]consultation.LabTest, error)
	UpdateLabTest(ctx context.Context, id uuid.UUID, in consultation.LabTestUpdate) (*consultation.LabTest, error)
	DeleteLabTest(ctx context.Context, id uuid.UUID) error
	SearchPrescriptions(ctx context.Context, keyword string) ([]consultation.PrescriptionSummary, error)
	PrescriptionDetails(ctx context.Context, id uuid.UUID) (*consultation.PrescriptionDetails, error)
	PrescriptionPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type InventoryService interface {
	Create(ctx context.Context, in inventory.MedicineInput) (*inventory.Medicine, error)
	Update(ctx context.Context, id uuid.UUID, in inventory.MedicineInput, active bool) (*inventory.Medicine, error)
	Get(ctx context.Context, id uuid.UUID) (*inventory.Medicine, error)
	Search(ctx context.Context, query string) ([]inventory.Medicine, error)
	CheckStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	Restock(ctx context.Context, id uuid.UUID, qty int, remarks string) (*inventory.Medicine, error)
	Transactions(ctx context.Context, id uuid.UUID) ([]inventory.StockTransaction, error)
}

type BillingService interface {
	Create(ctx context.Context, in billing.CreateInput) (*billing.Billing, error)
	Get(ctx context.Context, id uuid.UUID) (*billing.Billing, error)
	List(ctx context.Context) ([]billing.Billing, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]billing.Billing, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*billing.Billing, error)
	Update(ctx context.Context, id uuid.UUID, in billing.UpdateInput) (*billing.Billing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreatePharmacyBill(ctx context.Context, in billing.PharmacyBillInput) (*billing.PharmacyBill, error)
	GetPharmacyBill(ctx context.Context, id uuid.UUID) (*billing.PharmacyBill, error)
	PharmacyBillPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type RouterConfig struct {
	Schedules     ScheduleService
	Appointments  AppointmentService
	Consultations ConsultationService
	Inventory     InventoryService
	Billing       BillingService

	Auth     *auth.Authenticator
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Postgres Pinger
	Redis    Pinger
	Location *time.Location
	Env      string
	Version  string
}

func (cfg RouterConfig) today() time.Time {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return appointment.DateOnly(time.Now().In(loc))
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoverMiddleware)
	r.Use(MetricsMiddleware(cfg.Metrics))

	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	const (
		admin        = auth.Admin
		doctor       = auth.Doctor
		receptionist = auth.Receptionist
		pharmacist   = auth.Pharmacist
		lab          = auth.Lab
	)
	allow := auth.RequireRole

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Auth.Middleware)

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/practitioner/{practitionerID}/available-slots", availableSlotsHandler(cfg.Schedules))

			r.Group(func(r chi.Router) {
				r.Use(allow(admin))
				r.Post("/", createScheduleHandler(cfg.Schedules))
				r.Get("/practitioner/{practitionerID}", practitionerSchedulesHandler(cfg.Schedules))
				r.Get("/{id}", getScheduleHandler(cfg.Schedules))
				r.Put("/{id}", updateScheduleHandler(cfg.Schedules))
				r.Delete("/{id}", deleteScheduleHandler(cfg.Schedules))
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(allow(admin, receptionist, doctor))
				r.Get("/", listAppointmentsHandler(cfg.Appointments))
				r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
				r.Get("/patient/{patientID}", patientAppointmentsHandler(cfg.Appointments))
				r.Get("/practitioner/{practitionerID}/availability", slotAvailabilityHandler(cfg.Appointments))
			})
			r.Group(func(r chi.Router) {
				r.Use(allow(admin, doctor))
				r.Get("/practitioner/{practitionerID}", practitionerDayHandler(cfg.Appointments, cfg.today, false))
				r.Get("/practitioner/{practitionerID}/pending", practitionerDayHandler(cfg.Appointments, cfg.today, true))
				r.Get("/practitioner/{practitionerID}/range", practitionerRangeHandler(cfg.Appointments))
			})
			r.Group(func(r chi.Router) {
				r.Use(allow(admin, receptionist))
				r.Post("/", createAppointmentHandler(cfg.Appointments))
				r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
				r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
			})
		})

		r.Route("/consultations", func(r chi.Router) {
			r.With(allow(admin, doctor, receptionist)).Get("/patient/{patientID}/history", historyHandler(cfg.Consultations))
			r.Group(func(r chi.Router) {
				r.Use(allow(admin, doctor))
				r.Get("/patient/{patientID}/history/details", detailedHistoryHandler(cfg.Consultations))
				r.Get("/{id}", getConsultationHandler(cfg.Consultations))
			})
			r.Group(func(r chi.Router) {
				r.Use(allow(doctor))
				r.Post("/", createConsultationHandler(cfg.Consultations))
				r.Put("/{id}", updateConsultationHandler(cfg.Consultations))
			})
			r.With(allow(admin)).Delete("/{id}", deleteConsultationHandler(cfg.Consultations))
		})

		r.Route("/lab-tests", func(r chi.Router) {
			r.With(allow(admin, doctor, lab)).Get("/patient/{patientID}", patientLabTestsHandler(cfg.Consultations))
			r.With(allow(admin, doctor)).Put("/{id}", updateLabTestHandler(cfg.Consultations))
			r.With(allow(admin)).Delete("/{id}", deleteLabTestHandler(cfg.Consultations))
		})

		r.Route("/prescriptions", func(r chi.Router) {
			r.Use(allow(admin, doctor, pharmacist))
			r.Get("/search", searchPrescriptionsHandler(cfg.Consultations))
			r.Get("/{id}", prescriptionHandler(cfg.Consultations))
			r.Get("/{id}/download", prescriptionPDFHandler(cfg.Consultations))
		})

		r.Route("/medicines", func(r chi.Router) {
			r.Use(allow(admin, pharmacist))
			r.Get("/", listMedicinesHandler(cfg.Inventory))
			r.Post("/", createMedicineHandler(cfg.Inventory))
			r.Get("/{id}", getMedicineHandler(cfg.Inventory))
			r.Put("/{id}", updateMedicineHandler(cfg.Inventory))
			r.Get("/{id}/check-stock/{quantity}", checkStockHandler(cfg.Inventory))
			r.Post("/{id}/restock", restockHandler(cfg.Inventory))
			r.Get("/{id}/transactions", stockTransactionsHandler(cfg.Inventory))
		})

		r.Route("/billings", func(r chi.Router) {
			r.Use(allow(admin, receptionist, doctor))
			r.Get("/", listBillingsHandler(cfg.Billing))
			r.Post("/", createBillingHandler(cfg.Billing))
			r.Get("/patient/{patientID}", patientBillingsHandler(cfg.Billing))
			r.Get("/appointment/{appointmentID}", appointmentBillingHandler(cfg.Billing))
			r.Get("/{id}", getBillingHandler(cfg.Billing))
			r.Put("/{id}", updateBillingHandler(cfg.Billing))
			r.Delete("/{id}", deleteBillingHandler(cfg.Billing))
		})

		r.Route("/pharmacy-bills", func(r chi.Router) {
			r.Use(allow(admin, pharmacist))
			r.Post("/", createPharmacyBillHandler(cfg.Billing))
			r.Get("/{id}", getPharmacyBillHandler(cfg.Billing))
			r.Get("/{id}/download", pharmacyBillPDFHandler(cfg.Billing))
		})
	})

	return r
}
