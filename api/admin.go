package api

import (
	"errors"
	"net/http"
	"time"

	"meal-orders/db"
	"meal-orders/models"
	"meal-orders/services"

	"github.com/google/uuid"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *Handler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if db.Pool == nil || db.Pool.Ping(r.Context()) != nil {
		dbStatus = "error"
	}
	botStatus := "disabled"
	if h.notifier != nil {
		botStatus = "ok"
	}

	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Services:  map[string]string{"database": dbStatus, "driver_bot": botStatus},
	}
	status := http.StatusOK
	if dbStatus != "ok" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	_ = writeJSON(w, status, resp)
}

func (h *Handler) getPricingHandler(w http.ResponseWriter, r *http.Request) {
	p, err := services.GetOrCreatePricingConfig(r.Context(), h.cfg.Pricing)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, p); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) updatePricingHandler(w http.ResponseWriter, r *http.Request) {
	var p models.PricingConfig
	if err := readJSON(w, r, &p); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := services.ValidatePricing(p); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := services.UpdatePricingConfig(r.Context(), p); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("pricing updated",
		"completa", p.CompletaPrice.StringFixed(2),
		"extra_entree", p.ExtraEntreePrice.StringFixed(2),
		"extra_side", p.ExtraSidePrice.StringFixed(2),
		"delivery_fee_per_meal", p.DeliveryFeePerMeal.StringFixed(2))
	if err := writeJSON(w, http.StatusOK, p); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) getDraftHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	draft, err := services.GetDraft(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, draft); err != nil {
		h.respondError(w, r, err)
	}
}

// Drafts are saved as-is; validation happens on quote and on order creation.
func (h *Handler) saveDraftHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var draft models.OrderRequest
	if err := readJSON(w, r, &draft); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := services.SaveDraft(r.Context(), customerID, &draft); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := services.DeleteDraft(r.Context(), customerID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) quoteDraftHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	draft, err := services.GetDraft(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.quote(w, r, *draft)
}

type notifyRouteRequest struct {
	WeeklyMenuID uuid.UUID `json:"weeklyMenuId"`
	Day          int       `json:"day"`
}

func (h *Handler) notifyRouteHandler(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		writeError(w, http.StatusServiceUnavailable, "driver notifications are not configured")
		return
	}
	driverID, err := uuidParam(r, "driverID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req notifyRouteRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !services.ValidDayOfWeek(req.Day) {
		h.badRequest(w, r, errInvalidDay)
		return
	}
	if req.WeeklyMenuID == uuid.Nil {
		h.badRequest(w, r, errors.New("weeklyMenuId is required"))
		return
	}

	ctx := r.Context()
	driver, err := services.GetDriverByID(ctx, driverID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	menu, err := services.GetWeeklyMenu(ctx, req.WeeklyMenuID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	labels, err := services.GetDeliveryLabels(ctx, req.WeeklyMenuID, req.Day, &driverID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.notifier.SendRoute(ctx, *driver, models.FormatWeekStart(menu.WeekStartDate), req.Day, labels); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("route sent", "driver_id", driverID, "day", req.Day, "labels", len(labels))
	w.WriteHeader(http.StatusAccepted)
}

type notifyPayRequest struct {
	Week string `json:"week"`
}

func (h *Handler) notifyPayHandler(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		writeError(w, http.StatusServiceUnavailable, "driver notifications are not configured")
		return
	}
	driverID, err := uuidParam(r, "driverID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req notifyPayRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	week, err := parseWeek(req.Week)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx := r.Context()
	driver, err := services.GetDriverByID(ctx, driverID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	report, err := services.GetDriverPayReport(ctx, week)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.notifier.SendPay(ctx, *driver, *report); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("pay summary sent", "driver_id", driverID, "week", report.WeekStartDate)
	w.WriteHeader(http.StatusAccepted)
}
