package api

import (
	"errors"
	"net/http"

	"meal-orders/models"
	"meal-orders/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	CustomerID      uuid.UUID        `json:"customerId"`
	WeeklyMenuID    uuid.UUID        `json:"weeklyMenuId"`
	PromoPercentOff *decimal.Decimal `json:"promoPercentOff,omitempty"`
	models.OrderRequest
}

type quoteResponse struct {
	models.OrderTotals
	ChargeCents int64 `json:"chargeCents"`
}

func (h *Handler) quoteOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	h.quote(w, r, req)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request, req models.OrderRequest) {
	in, err := req.ToInput()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	totals, err := services.QuoteOrder(r.Context(), in, h.cfg.Ordering, h.cfg.Pricing)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, quoteResponse{OrderTotals: totals, ChargeCents: totals.ChargeCents()}); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.CustomerID == uuid.Nil || req.WeeklyMenuID == uuid.Nil {
		h.badRequest(w, r, errors.New("customerId and weeklyMenuId are required"))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	order, err := services.CreateOrder(r.Context(), req.CustomerID, req.WeeklyMenuID, in, req.PromoPercentOff, h.cfg.Ordering, h.cfg.Pricing)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("order created", "order_id", order.ID, "customer_id", order.CustomerID, "total", order.TotalAmount.StringFixed(2))
	if err := writeJSON(w, http.StatusCreated, order); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	order, err := services.GetOrder(r.Context(), orderID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) editOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req models.OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	order, err := services.ReconcileOrderEdit(r.Context(), orderID, in, h.cfg.Ordering, h.cfg.Pricing)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("order edited", "order_id", order.ID, "version", order.Version, "total", order.TotalAmount.StringFixed(2))
	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.respondError(w, r, err)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req statusRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Status == "" {
		h.badRequest(w, r, errors.New("status is required"))
		return
	}
	if err := services.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("order status changed", "order_id", orderID, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}

type assignmentRequest struct {
	DriverID   *uuid.UUID `json:"driverId"`
	StopNumber *int       `json:"stopNumber"`
}

func (h *Handler) assignDriverHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req assignmentRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := services.AssignDriver(r.Context(), orderID, req.DriverID, req.StopNumber); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
