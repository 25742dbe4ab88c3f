package api

import (
	"errors"
	"net/http"

	"meal-orders/models"
	"meal-orders/services"
)

type createCustomerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (h *Handler) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	id, err := services.CreateCustomer(r.Context(), req.FullName, req.Email, req.Phone)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()}); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) listAddressesHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	addrs, err := services.ListAddresses(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if addrs == nil {
		addrs = []models.Address{}
	}
	if err := writeJSON(w, http.StatusOK, addrs); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) addAddressHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var a models.Address
	if err := readJSON(w, r, &a); err != nil {
		h.badRequest(w, r, err)
		return
	}
	a.CustomerID = customerID
	created, err := services.AddAddress(r.Context(), a)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, created); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) listMenuItemsHandler(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	if itemType != "" && itemType != models.ItemTypeEntree && itemType != models.ItemTypeSide {
		h.badRequest(w, r, errors.New("type must be ENTREE or SIDE"))
		return
	}
	items, err := services.ListMenuItems(r.Context(), itemType)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	if err := writeJSON(w, http.StatusOK, items); err != nil {
		h.respondError(w, r, err)
	}
}

type addMenuItemRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsDessert bool   `json:"isDessert"`
}

func (h *Handler) addMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addMenuItemRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	item, err := services.AddMenuItem(r.Context(), req.Name, req.Type, req.IsDessert)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, item); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) createWeeklyMenuHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStartDate string `json:"weekStartDate"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	weekStart, err := parseWeek(req.WeekStartDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	menu, err := services.CreateWeeklyMenu(r.Context(), weekStart)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, menu); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) listDriversHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	drivers, err := services.ListDrivers(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	if err := writeJSON(w, http.StatusOK, drivers); err != nil {
		h.respondError(w, r, err)
	}
}

type createDriverRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Drivers start without a chat; they link one through the bot's /link command.
func (h *Handler) createDriverHandler(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	d, err := services.CreateDriver(r.Context(), req.FullName, req.Phone, 0)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.log(r).Infow("driver created", "driver_id", d.ID)
	if err := writeJSON(w, http.StatusCreated, d); err != nil {
		h.respondError(w, r, err)
	}
}

func (h *Handler) setDriverActiveHandler(w http.ResponseWriter, r *http.Request) {
	driverID, err := uuidParam(r, "driverID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.IsActive == nil {
		h.badRequest(w, r, errors.New("isActive is required"))
		return
	}
	if err := services.SetDriverActive(r.Context(), driverID, *req.IsActive); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
