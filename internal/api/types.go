package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/billing"
	"github.com/hackgods/clinicops/internal/consultation"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// schedules

type ScheduleRequest struct {
	PractitionerID string `json:"practitioner_id"`
	DayOfWeek      string `json:"day_of_week"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

type ScheduleResponse struct {
	ID             uuid.UUID `json:"id"`
	PractitionerID uuid.UUID `json:"practitioner_id"`
	DayOfWeek      string    `json:"day_of_week"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	IsActive       bool      `json:"is_active"`
}

func toScheduleResponse(s schedule.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:             s.ID,
		PractitionerID: s.PractitionerID,
		DayOfWeek:      string(s.Day),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		IsActive:       s.Active,
	}
}

type SlotsResponse struct {
	PractitionerID uuid.UUID `json:"practitioner_id"`
	Date           string    `json:"date"`
	Slots          []string  `json:"slots"`
}

// appointments

type CreateAppointmentRequest struct {
	PatientID        string  `json:"patient_id"`
	PractitionerID   string  `json:"practitioner_id"`
	AppointmentDate  string  `json:"appointment_date"`
	TimeSlot         string  `json:"time_slot"`
	Reason           *string `json:"reason,omitempty"`
	ConsultationType string  `json:"consultation_type,omitempty"`
}

type UpdateAppointmentRequest struct {
	CreateAppointmentRequest
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID               uuid.UUID        `json:"id"`
	PatientID        uuid.UUID        `json:"patient_id"`
	PractitionerID   uuid.UUID        `json:"practitioner_id"`
	AppointmentDate  string           `json:"appointment_date"`
	TimeSlot         string           `json:"time_slot"`
	TokenNo          int              `json:"token_no"`
	Status           string           `json:"status"`
	IsVisited        bool             `json:"is_visited"`
	Reason           *string          `json:"reason,omitempty"`
	ConsultationType string           `json:"consultation_type"`
	Fee              *decimal.Decimal `json:"fee,omitempty"`

	PatientMRN       string  `json:"patient_mrn"`
	PatientName      string  `json:"patient_name"`
	PatientPhone     *string `json:"patient_phone,omitempty"`
	PatientAddress   *string `json:"patient_address,omitempty"`
	PractitionerName string  `json:"practitioner_name"`

	CurrentPatientName      string  `json:"current_patient_name,omitempty"`
	CurrentPractitionerName string  `json:"current_practitioner_name,omitempty"`
	Specialization          *string `json:"specialization,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAppointmentResponse(d appointment.AppointmentDetail) AppointmentResponse {
	resp := AppointmentResponse{
		ID:                      d.ID,
		PatientID:               d.PatientID,
		PractitionerID:          d.PractitionerID,
		AppointmentDate:         d.Date.Format(time.DateOnly),
		TimeSlot:                d.TimeSlot,
		TokenNo:                 d.TokenNo,
		Status:                  string(d.Status),
		IsVisited:               d.Visited,
		Reason:                  d.Reason,
		ConsultationType:        d.ConsultationType,
		PatientMRN:              d.PatientMRN,
		PatientName:             d.PatientName,
		PatientPhone:            d.PatientPhone,
		PatientAddress:          d.PatientAddress,
		PractitionerName:        d.PractitionerName,
		CurrentPatientName:      d.CurrentPatientName,
		CurrentPractitionerName: d.CurrentPractitionerName,
		Specialization:          d.Specialization,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
	}
	if d.Fee.Valid {
		fee := d.Fee.Decimal
		resp.Fee = &fee
	}
	return resp
}

func toAppointmentList(in []appointment.AppointmentDetail) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(in))
	for _, d := range in {
		out = append(out, toAppointmentResponse(d))
	}
	return out
}

// consultations

type MedicineLineRequest struct {
	MedicineID   string `json:"medicine_id"`
	Morning      int    `json:"morning"`
	Noon         int    `json:"noon"`
	Evening      int    `json:"evening"`
	MealTime     string `json:"meal_time,omitempty"`
	DurationDays int    `json:"duration_days"`
	Quantity     *int   `json:"quantity,omitempty"`
	Dosage       *int   `json:"dosage,omitempty"`
}

type ConsultationRequest struct {
	PatientID      string                `json:"patient_id"`
	PractitionerID string                `json:"practitioner_id"`
	AppointmentID  string                `json:"appointment_id"`
	ChiefComplaint string                `json:"chief_complaint"`
	Symptoms       string                `json:"symptoms"`
	Diagnosis      string                `json:"diagnosis"`
	Notes          string                `json:"notes"`
	FollowUpDate   *string               `json:"follow_up_date,omitempty"`
	Medicines      []MedicineLineRequest `json:"medicines"`
	LabTests       []string              `json:"lab_tests"`
}

type PrescriptionItemResponse struct {
	ID           uuid.UUID `json:"id"`
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Morning      int       `json:"morning"`
	Noon         int       `json:"noon"`
	Evening      int       `json:"evening"`
	MealTime     string    `json:"meal_time"`
	DurationDays int       `json:"duration_days"`
	Quantity     *int      `json:"quantity,omitempty"`
	Dosage       *int      `json:"dosage,omitempty"`
}

func toItemResponses(items []consultation.PrescriptionItem) []PrescriptionItemResponse {
	out := make([]PrescriptionItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, PrescriptionItemResponse{
			ID:           it.ID,
			MedicineID:   it.MedicineID,
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
	return out
}

type LabTestResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	TestName       string     `json:"test_name"`
	Status         string     `json:"status"`
	Result         *string    `json:"result,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func toLabTestResponse(t consultation.LabTest) LabTestResponse {
	return LabTestResponse{
		ID:             t.ID,
		ConsultationID: t.ConsultationID,
		PatientID:      t.PatientID,
		PractitionerID: t.PractitionerID,
		TestName:       t.TestName,
		Status:         t.Status,
		Result:         t.Result,
		RequestedAt:    t.RequestedAt,
		CompletedAt:    t.CompletedAt,
	}
}

func toLabTestList(in []consultation.LabTest) []LabTestResponse {
	out := make([]LabTestResponse, 0, len(in))
	for _, t := range in {
		out = append(out, toLabTestResponse(t))
	}
	return out
}

type LabTestUpdateRequest struct {
	TestName string  `json:"test_name"`
	Status   string  `json:"status"`
	Result   *string `json:"result,omitempty"`
}

type ConsultationResponse struct {
	ID             uuid.UUID                  `json:"id"`
	PatientID      uuid.UUID                  `json:"patient_id"`
	PractitionerID uuid.UUID                  `json:"practitioner_id"`
	AppointmentID  uuid.UUID                  `json:"appointment_id"`
	BookedAt       time.Time                  `json:"booked_at"`
	ChiefComplaint string                     `json:"chief_complaint"`
	Symptoms       string                     `json:"symptoms"`
	Diagnosis      string                     `json:"diagnosis"`
	Notes          string                     `json:"notes"`
	FollowUpDate   *string                    `json:"follow_up_date,omitempty"`
	PrescriptionID *uuid.UUID                 `json:"prescription_id,omitempty"`
	Medicines      []PrescriptionItemResponse `json:"medicines"`
	LabTests       []LabTestResponse          `json:"lab_tests"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

func toConsultationResponse(d consultation.Detail) ConsultationResponse {
	resp := ConsultationResponse{
		ID:             d.ID,
		PatientID:      d.PatientID,
		PractitionerID: d.PractitionerID,
		AppointmentID:  d.AppointmentID,
		BookedAt:       d.BookedAt,
		ChiefComplaint: d.ChiefComplaint,
		Symptoms:       d.Symptoms,
		Diagnosis:      d.Diagnosis,
		Notes:          d.Notes,
		FollowUpDate:   formatDate(d.FollowUpDate),
		Medicines:      toItemResponses(d.Items),
		LabTests:       toLabTestList(d.LabTests),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Prescription != nil {
		resp.PrescriptionID = &d.Prescription.ID
	}
	return resp
}

type HistoryEntryResponse struct {
	ConsultationID   uuid.UUID `json:"consultation_id"`
	AppointmentID    uuid.UUID `json:"appointment_id"`
	VisitDate        time.Time `json:"visit_date"`
	PractitionerName string    `json:"practitioner_name"`
	ChiefComplaint   string    `json:"chief_complaint"`
	Symptoms         string    `json:"symptoms"`
	Diagnosis        string    `json:"diagnosis"`
	Notes            string    `json:"notes"`
	FollowUpDate     *string   `json:"follow_up_date,omitempty"`
}

func toHistoryEntry(h consultation.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ConsultationID:   h.ConsultationID,
		AppointmentID:    h.AppointmentID,
		VisitDate:        h.VisitDate,
		PractitionerName: h.PractitionerName,
		ChiefComplaint:   h.ChiefComplaint,
		Symptoms:         h.Symptoms,
		Diagnosis:        h.Diagnosis,
		Notes:            h.Notes,
		FollowUpDate:     formatDate(h.FollowUpDate),
	}
}

type HistoryDetailResponse struct {
	HistoryEntryResponse
	Medicines []PrescriptionItemResponse `json:"medicines"`
	LabTests  []string                   `json:"lab_tests"`
}

type PrescriptionSummaryResponse struct {
	ID               uuid.UUID `json:"id"`
	ConsultationID   uuid.UUID `json:"consultation_id"`
	PatientName      string    `json:"patient_name"`
	PractitionerName string    `json:"practitioner_name"`
	Diagnosis        string    `json:"diagnosis"`
	IssuedAt         time.Time `json:"issued_at"`
}

func toPrescriptionSummary(p consultation.PrescriptionSummary) PrescriptionSummaryResponse {
	return PrescriptionSummaryResponse{
		ID:               p.ID,
		ConsultationID:   p.ConsultationID,
		PatientName:      p.PatientName,
		PractitionerName: p.PractitionerName,
		Diagnosis:        p.Diagnosis,
		IssuedAt:         p.IssuedAt,
	}
}

type PrescriptionDetailsResponse struct {
	PrescriptionSummaryResponse
	Items []PrescriptionItemResponse `json:"items"`
}

// medicines

type MedicineRequest struct {
	Name          string          `json:"name"`
	BatchNo       string          `json:"batch_no"`
	Manufacturer  string          `json:"manufacturer"`
	ExpiryDate    string          `json:"expiry_date"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active,omitempty"`
}

type MedicineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	BatchNo       string          `json:"batch_no"`
	Manufacturer  string          `json:"manufacturer"`
	ExpiryDate    string          `json:"expiry_date"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toMedicineResponse(m inventory.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		BatchNo:       m.BatchNo,
		Manufacturer:  m.Manufacturer,
		ExpiryDate:    m.ExpiryDate.Format(time.DateOnly),
		UnitPrice:     m.UnitPrice,
		SellingPrice:  m.SellingPrice,
		StockQuantity: m.Stock,
		IsActive:      m.Active,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toMedicineList(in []inventory.Medicine) []MedicineResponse {
	out := make([]MedicineResponse, 0, len(in))
	for _, m := range in {
		out = append(out, toMedicineResponse(m))
	}
	return out
}

type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Remarks  string `json:"remarks,omitempty"`
}

type StockCheckResponse struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	Available  bool      `json:"available"`
}

type StockTransactionResponse struct {
	ID              uuid.UUID `json:"id"`
	MedicineID      uuid.UUID `json:"medicine_id"`
	QuantityChange  int       `json:"quantity_change"`
	TransactionType string    `json:"transaction_type"`
	Remarks         string    `json:"remarks"`
	CreatedAt       time.Time `json:"created_at"`
}

// billing

type BillingRequest struct {
	PatientID     string          `json:"patient_id"`
	AppointmentID *string         `json:"appointment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Status        string          `json:"status,omitempty"`
	DueDate       *string         `json:"due_date,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

type BillingUpdateRequest struct {
	BillingRequest
	PaidDate         *time.Time `json:"paid_date,omitempty"`
	PatientName      string     `json:"patient_name"`
	PatientPhone     *string    `json:"patient_phone,omitempty"`
	PatientAddress   *string    `json:"patient_address,omitempty"`
	PractitionerName string     `json:"practitioner_name"`
}

type BillingResponse struct {
	ID               uuid.UUID       `json:"id"`
	PatientID        uuid.UUID       `json:"patient_id"`
	AppointmentID    *uuid.UUID      `json:"appointment_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	DueDate          *string         `json:"due_date,omitempty"`
	PaidDate         *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod    *string         `json:"payment_method,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	PatientName      string          `json:"patient_name"`
	PatientPhone     *string         `json:"patient_phone,omitempty"`
	PatientAddress   *string         `json:"patient_address,omitempty"`
	PractitionerName string          `json:"practitioner_name,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toBillingResponse(b billing.Billing) BillingResponse {
	return BillingResponse{
		ID:               b.ID,
		PatientID:        b.PatientID,
		AppointmentID:    b.AppointmentID,
		Amount:           b.Amount,
		Description:      b.Description,
		Status:           string(b.Status),
		DueDate:          formatDate(b.DueDate),
		PaidDate:         b.PaidDate,
		PaymentMethod:    b.PaymentMethod,
		Notes:            b.Notes,
		PatientName:      b.PatientName,
		PatientPhone:     b.PatientPhone,
		PatientAddress:   b.PatientAddress,
		PractitionerName: b.PractitionerName,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func toBillingList(in []billing.Billing) []BillingResponse {
	out := make([]BillingResponse, 0, len(in))
	for _, b := range in {
		out = append(out, toBillingResponse(b))
	}
	return out
}

type PharmacyItemRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

type PharmacyBillRequest struct {
	PatientID *string               `json:"patient_id,omitempty"`
	Items     []PharmacyItemRequest `json:"items"`
}

type PharmacyBillItemResponse struct {
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type PharmacyBillResponse struct {
	ID          uuid.UUID                  `json:"id"`
	PatientID   *uuid.UUID                 `json:"patient_id,omitempty"`
	PatientName string                     `json:"patient_name,omitempty"`
	Total       decimal.Decimal            `json:"total"`
	BillDate    time.Time                  `json:"bill_date"`
	Items       []PharmacyBillItemResponse `json:"items"`
}

func toPharmacyBillResponse(b billing.PharmacyBill) PharmacyBillResponse {
	resp := PharmacyBillResponse{
		ID:          b.ID,
		PatientID:   b.PatientID,
		PatientName: b.PatientName,
		Total:       b.Total,
		BillDate:    b.BillDate,
		Items:       make([]PharmacyBillItemResponse, 0, len(b.Items)),
	}
	for _, it := range b.Items {
		resp.Items = append(resp.Items, PharmacyBillItemResponse{
			MedicineID:   it.MedicineID,
			MedicineName: it.MedicineName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineTotal:    it.LineTotal,
		})
	}
	return resp
}
