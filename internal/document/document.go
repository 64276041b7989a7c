// Package document renders printable prescriptions and pharmacy bills.
// Callers hand over fully resolved values; nothing here touches storage.
package document

import (
	"time"

	"github.com/shopspring/decimal"
)

type PrescriptionLine struct {
	MedicineName string
	Morning      int
	Noon         int
	Evening      int
	MealTime     string
	DurationDays int
	Quantity     *int
	Dosage       *int
}

type PrescriptionDocument struct {
	Reference        string
	IssuedAt         time.Time
	PatientName      string
	PractitionerName string
	Diagnosis        string
	Lines            []PrescriptionLine
}

type PharmacyBillLine struct {
	MedicineName string
	Quantity     int
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
}

type PharmacyBillDocument struct {
	Reference   string
	BillDate    time.Time
	PatientName string
	Lines       []PharmacyBillLine
	Total       decimal.Decimal
}

type Renderer interface {
	PrescriptionPDF(doc PrescriptionDocument) ([]byte, error)
	PharmacyBillPDF(doc PharmacyBillDocument) ([]byte, error)
}
