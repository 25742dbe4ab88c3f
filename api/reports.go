package api

import (
	"net/http"

	"meal-orders/models"
	"meal-orders/services"

	"github.com/google/uuid"
)

func (h *Handler) prepSheetHandler(w http.ResponseWriter, r *http.Request) {
	weeklyMenuID, err := uuidParam(r, "weeklyMenuID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	day, err := dayParam(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	sheet, err := services.GetPrepSheet(r.Context(), weeklyMenuID, day)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, sheet); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) labelsHandler(w http.ResponseWriter, r *http.Request) {
	weeklyMenuID, err := uuidParam(r, "weeklyMenuID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	day, err := dayParam(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var driverID *uuid.UUID
	if s := r.URL.Query().Get("driver_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.badRequest(w, r, errInvalidID)
			return
		}
		driverID = &id
	}

	labels, err := services.GetDeliveryLabels(r.Context(), weeklyMenuID, day, driverID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if labels == nil {
		labels = []models.Label{}
	}
	if err := writeJSON(w, http.StatusOK, labels); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) driverPayHandler(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeek(r.URL.Query().Get("week"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	report, err := services.GetDriverPayReport(r.Context(), week)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if report.SkippedUnassignedOrders > 0 {
		h.log(r).Warnw("delivered orders without a driver left out of pay report",
			"week", report.WeekStartDate, "skipped", report.SkippedUnassignedOrders)
	}
	if err := writeJSON(w, http.StatusOK, report); err != nil {
		h.respondError(w, r, err)
	}
}
