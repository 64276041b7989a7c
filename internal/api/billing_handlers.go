package api

import (
	"net/http"

	"github.com/hackgods/clinicops/internal/billing"
)

func (req BillingRequest) toCreateInput() (billing.CreateInput, error) {
	var in billing.CreateInput
	var err error
	if req.PatientID != "" {
		if in.PatientID, err = parseUUID("patient_id", req.PatientID); err != nil {
			return in, err
		}
	}
	if in.AppointmentID, err = parseOptionalUUID("appointment_id", req.AppointmentID); err != nil {
		return in, err
	}
	if in.DueDate, err = parseOptionalDate("due_date", req.DueDate); err != nil {
		return in, err
	}
	in.Amount = req.Amount
	in.Description = req.Description
	in.Status = req.Status
	in.PaymentMethod = req.PaymentMethod
	in.Notes = req.Notes
	return in, nil
}

func createBillingHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BillingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toCreateInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBillingResponse(*b))
	}
}

func updateBillingHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req BillingUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		base, err := req.toCreateInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := svc.Update(r.Context(), id, billing.UpdateInput{
			PatientID:        base.PatientID,
			AppointmentID:    base.AppointmentID,
			Amount:           base.Amount,
			Description:      base.Description,
			Status:           base.Status,
			DueDate:          base.DueDate,
			PaidDate:         req.PaidDate,
			PaymentMethod:    base.PaymentMethod,
			Notes:            base.Notes,
			PatientName:      req.PatientName,
			PatientPhone:     req.PatientPhone,
			PatientAddress:   req.PatientAddress,
			PractitionerName: req.PractitionerName,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillingResponse(*b))
	}
}

func getBillingHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillingResponse(*b))
	}
}

func listBillingsHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillingList(list))
	}
}

func patientBillingsHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "patientID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, err := svc.ListByPatient(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillingList(list))
	}
}

func appointmentBillingHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "appointmentID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := svc.GetByAppointment(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillingResponse(*b))
	}
}

func deleteBillingHandler(svc BillingService) http.HandlerFunc {
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

// pharmacy bills

func createPharmacyBillHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PharmacyBillRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		patientID, err := parseOptionalUUID("patient_id", req.PatientID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in := billing.PharmacyBillInput{PatientID: patientID}
		for _, it := range req.Items {
			id, err := parseUUID("medicine_id", it.MedicineID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			in.Items = append(in.Items, billing.PharmacyItemInput{MedicineID: id, Quantity: it.Quantity})
		}

		bill, err := svc.CreatePharmacyBill(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPharmacyBillResponse(*bill))
	}
}

func getPharmacyBillHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		bill, err := svc.GetPharmacyBill(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toPharmacyBillResponse(*bill))
	}
}

func pharmacyBillPDFHandler(svc BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		pdf, err := svc.PharmacyBillPDF(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePDF(w, "pharmacy-bill-"+id.String()+".pdf", pdf)
	}
}
