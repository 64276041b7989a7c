package document

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
)

type PDFRenderer struct {
	clinicName string
}

func NewPDFRenderer(clinicName string) *PDFRenderer {
	if clinicName == "" {
		clinicName = "Clinic"
	}
	return &PDFRenderer{clinicName: clinicName}
}

func (r *PDFRenderer) newPage(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.clinicName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func field(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, value, "", 1, "L", false, 0, "")
}

func header(pdf *fpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, t := range titles {
		pdf.CellFormat(widths[i], lineHeight, t, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func finish(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func (r *PDFRenderer) PrescriptionPDF(doc PrescriptionDocument) ([]byte, error) {
	pdf := r.newPage("Prescription")

	field(pdf, "Reference", doc.Reference)
	field(pdf, "Date", doc.IssuedAt.Format(time.DateOnly))
	field(pdf, "Patient", doc.PatientName)
	field(pdf, "Practitioner", doc.PractitionerName)
	if doc.Diagnosis != "" {
		field(pdf, "Diagnosis", doc.Diagnosis)
	}
	pdf.Ln(4)

	widths := []float64{60, 30, 30, 20, 20, 20}
	header(pdf, widths, []string{"Medicine", "Dose (M-N-E)", "Meal", "Days", "Qty", "Dosage"})
	for _, l := range doc.Lines {
		pdf.CellFormat(widths[0], lineHeight, l.MedicineName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], lineHeight, fmt.Sprintf("%d-%d-%d", l.Morning, l.Noon, l.Evening), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], lineHeight, l.MealTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], lineHeight, strconv.Itoa(l.DurationDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], lineHeight, optionalInt(l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], lineHeight, optionalInt(l.Dosage), "1", 1, "C", false, 0, "")
	}

	return finish(pdf)
}

func (r *PDFRenderer) PharmacyBillPDF(doc PharmacyBillDocument) ([]byte, error) {
	pdf := r.newPage("Pharmacy Bill")

	field(pdf, "Bill", doc.Reference)
	field(pdf, "Date", doc.BillDate.Format("2006-01-02 15:04"))
	if doc.PatientName != "" {
		field(pdf, "Patient", doc.PatientName)
	}
	pdf.Ln(4)

	widths := []float64{80, 25, 35, 40}
	header(pdf, widths, []string{"Medicine", "Qty", "Unit price", "Line total"})
	for _, l := range doc.Lines {
		pdf.CellFormat(widths[0], lineHeight, l.MedicineName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], lineHeight, strconv.Itoa(l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], lineHeight, l.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], lineHeight, l.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], lineHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], lineHeight, doc.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	return finish(pdf)
}
