package api

import (
	"net/http"
	"strings"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/consultation"
)

func (req ConsultationRequest) toRequest() (consultation.Request, error) {
	var out consultation.Request
	var err error
	if out.PatientID, err = parseUUID("patient_id", req.PatientID); err != nil {
		return out, err
	}
	if out.PractitionerID, err = parseUUID("practitioner_id", req.PractitionerID); err != nil {
		return out, err
	}
	if out.AppointmentID, err = parseUUID("appointment_id", req.AppointmentID); err != nil {
		return out, err
	}
	if out.FollowUpDate, err = parseOptionalDate("follow_up_date", req.FollowUpDate); err != nil {
		return out, err
	}

	out.ChiefComplaint = req.ChiefComplaint
	out.Symptoms = req.Symptoms
	out.Diagnosis = req.Diagnosis
	out.Notes = req.Notes
	out.LabTests = req.LabTests

	for _, m := range req.Medicines {
		id, err := parseUUID("medicine_id", m.MedicineID)
		if err != nil {
			return out, err
		}
		out.Medicines = append(out.Medicines, consultation.MedicineLine{
			MedicineID:   id,
			DoseMorning:  m.Morning,
			DoseNoon:     m.Noon,
			DoseEvening:  m.Evening,
			MealTime:     m.MealTime,
			DurationDays: m.DurationDays,
			Quantity:     m.Quantity,
			Dosage:       m.Dosage,
		})
	}
	return out, nil
}

func createConsultationHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConsultationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toRequest()
		if err != nil {
			writeError(w, r, err)
			return
		}
		d, err := svc.Add(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toConsultationResponse(*d))
	}
}

func updateConsultationHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req ConsultationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toRequest()
		if err != nil {
			writeError(w, r, err)
			return
		}
		d, err := svc.Update(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toConsultationResponse(*d))
	}
}

func getConsultationHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		d, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toConsultationResponse(*d))
	}
}

func deleteConsultationHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func historyHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "patientID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		entries, err := svc.History(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]HistoryEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toHistoryEntry(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func detailedHistoryHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "patientID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		entries, err := svc.DetailedHistory(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]HistoryDetailResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, HistoryDetailResponse{
				HistoryEntryResponse: toHistoryEntry(e.HistoryEntry),
				Medicines:            toItemResponses(e.Medicines),
				LabTests:             e.LabTests,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// lab tests

func patientLabTestsHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "patientID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		tests, err := svc.LabTestsByPatient(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toLabTestList(tests))
	}
}

func updateLabTestHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req LabTestUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := svc.UpdateLabTest(r.Context(), id, consultation.LabTestUpdate{
			TestName: req.TestName,
			Status:   req.Status,
			Result:   req.Result,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toLabTestResponse(*t))
	}
}

func deleteLabTestHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.DeleteLabTest(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// prescriptions

var errMissingKeyword = apperr.Invalid("missing_keyword", "keyword query parameter is required")

func searchPrescriptionsHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
		if keyword == "" {
			writeError(w, r, errMissingKeyword)
			return
		}
		found, err := svc.SearchPrescriptions(r.Context(), keyword)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]PrescriptionSummaryResponse, 0, len(found))
		for _, p := range found {
			out = append(out, toPrescriptionSummary(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func prescriptionHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		p, err := svc.PrescriptionDetails(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PrescriptionDetailsResponse{
			PrescriptionSummaryResponse: toPrescriptionSummary(p.PrescriptionSummary),
			Items:                       toItemResponses(p.Items),
		})
	}
}

func prescriptionPDFHandler(svc ConsultationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		pdf, err := svc.PrescriptionPDF(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePDF(w, "prescription-"+id.String()+".pdf", pdf)
	}
}
