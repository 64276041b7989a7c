package api

import (
	"net/http"
	"time"

	"github.com/hackgods/clinicops/internal/schedule"
)

func (req ScheduleRequest) toInput() (schedule.Input, error) {
	id, err := parseUUID("practitioner_id", req.PractitionerID)
	if err != nil {
		return schedule.Input{}, err
	}
	return schedule.Input{
		PractitionerID: id,
		Day:            req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Active:         req.IsActive,
	}, nil
}

func createScheduleHandler(svc ScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScheduleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		s, err := svc.CreateSchedule(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toScheduleResponse(*s))
	}
}

func updateScheduleHandler(svc ScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req ScheduleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		s, err := svc.UpdateSchedule(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(*s))
	}
}

func getScheduleHandler(svc ScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		s, err := svc.GetSchedule(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(*s))
	}
}

func deleteScheduleHandler(svc ScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.DeleteSchedule(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func practitionerSchedulesHandler(svc ScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "practitionerID")
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, err := svc.ListByPractitioner(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]ScheduleResponse, 0, len(list))
		for _, s := range list {
			out = append(out, toScheduleResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// availableSlotsHandler never fails on lookup errors; the generator answers
// with an empty list instead.
func availableSlotsHandler(svc ScheduleService) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, SlotsResponse{
			PractitionerID: id,
			Date:           date.Format(time.DateOnly),
			Slots:          svc.AvailableSlots(r.Context(), id, date),
		})
	}
}
