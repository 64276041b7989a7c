package api

import (
	"net/http"
	"time"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/appointment"
)

func (req CreateAppointmentRequest) toInput() (appointment.CreateInput, error) {
	var in appointment.CreateInput
	var err error
	if in.PatientID, err = parseUUID("patient_id", req.PatientID); err != nil {
		return in, err
	}
	if in.PractitionerID, err = parseUUID("practitioner_id", req.PractitionerID); err != nil {
		return in, err
	}
	if in.Date, err = parseDate("appointment_date", req.AppointmentDate); err != nil {
		return in, err
	}
	in.TimeSlot = req.TimeSlot
	in.Reason = req.Reason
	in.ConsultationType = req.ConsultationType
	return in, nil
}

func createAppointmentHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
	}
}

func updateAppointmentHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req UpdateAppointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		base, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}

		appt, err := svc.UpdateAppointment(r.Context(), id, appointment.UpdateInput{
			PatientID:        base.PatientID,
			PractitionerID:   base.PractitionerID,
			Date:             base.Date,
			TimeSlot:         base.TimeSlot,
			Status:           req.Status,
			Reason:           base.Reason,
			ConsultationType: base.ConsultationType,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func deleteAppointmentHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		deleted, err := svc.DeleteAppointment(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !deleted {
			writeError(w, r, appointment.ErrAppointmentNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getAppointmentHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

// listAppointmentsHandler returns every active appointment, or one day's
// when ?date= is given.
func listAppointmentsHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := optionalDate(r, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var list []appointment.AppointmentDetail
		if date != nil {
			list, err = svc.ListByDate(r.Context(), *date)
		} else {
			list, err = svc.ListAll(r.Context())
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(list))
	}
}

func patientAppointmentsHandler(svc AppointmentService) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, toAppointmentList(list))
	}
}

// practitionerDayHandler serves a practitioner's day, defaulting to today.
// pending restricts it to appointments not yet visited.
func practitionerDayHandler(svc AppointmentService, today func() time.Time, pending bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "practitionerID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := optionalDate(r, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		day := today()
		if date != nil {
			day = *date
		}

		var list []appointment.AppointmentDetail
		if pending {
			list, err = svc.ListPending(r.Context(), id, day)
		} else {
			list, err = svc.ListByPractitionerDate(r.Context(), id, day)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(list))
	}
}

func practitionerRangeHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "practitionerID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		from, err := requiredDate(r, "from")
		if err != nil {
			writeError(w, r, err)
			return
		}
		to, err := requiredDate(r, "to")
		if err != nil {
			writeError(w, r, err)
			return
		}

		list, err := svc.ListByPractitionerRange(r.Context(), id, from, to)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(list))
	}
}

var errMissingSlot = apperr.Invalid("missing_time_slot", "time_slot query parameter is required")

// slotAvailabilityHandler answers whether a practitioner's slot is still
// free on a date.
func slotAvailabilityHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "practitionerID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := requiredDate(r, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		slot := r.URL.Query().Get("time_slot")
		if slot == "" {
			writeError(w, r, errMissingSlot)
			return
		}

		free, err := svc.IsSlotAvailable(r.Context(), id, date, slot, nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"practitioner_id": id,
			"date":            date.Format(time.DateOnly),
			"time_slot":       slot,
			"available":       free,
		})
	}
}
