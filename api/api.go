package api

import (
	"context"
	"net/http"

	"meal-orders/config"
	"meal-orders/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DriverNotifier pushes routes and pay summaries to drivers. *bot.DriverBot implements it.
type DriverNotifier interface {
	SendRoute(ctx context.Context, driver models.Driver, weekStart string, day int, labels []models.Label) error
	SendPay(ctx context.Context, driver models.Driver, report models.DriverPayReport) error
}

type Handler struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	notifier DriverNotifier
}

// NewHandler builds the HTTP handlers. notifier may be nil when no driver bot is configured.
func NewHandler(cfg *config.Config, logger *zap.SugaredLogger, notifier DriverNotifier) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{cfg: cfg, logger: logger, notifier: notifier}
}

// NewRouter mounts every route under /api/v1 with the standard middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", h.RegisterRoutes)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.healthCheckHandler)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/quote", h.quoteOrderHandler)
		r.Post("/", h.createOrderHandler)
		r.Get("/{orderID}", h.getOrderHandler)
		r.Put("/{orderID}", h.editOrderHandler)
		r.Patch("/{orderID}/status", h.updateOrderStatusHandler)
		r.Put("/{orderID}/assignment", h.assignDriverHandler)
	})

	r.Get("/menu-items", h.listMenuItemsHandler)
	r.Post("/menu-items", h.addMenuItemHandler)
	r.Post("/weekly-menus", h.createWeeklyMenuHandler)

	r.Post("/customers", h.createCustomerHandler)
	r.Get("/customers/{customerID}/addresses", h.listAddressesHandler)
	r.Post("/customers/{customerID}/addresses", h.addAddressHandler)

	r.Get("/drivers", h.listDriversHandler)
	r.Post("/drivers", h.createDriverHandler)
	r.Patch("/drivers/{driverID}/active", h.setDriverActiveHandler)

	r.Route("/weekly-menus/{weeklyMenuID}/days/{day}", func(r chi.Router) {
		r.Get("/prep-sheet", h.prepSheetHandler)
		r.Get("/labels", h.labelsHandler)
	})
	r.Get("/reports/driver-pay", h.driverPayHandler)

	r.Get("/pricing", h.getPricingHandler)
	r.Put("/pricing", h.updatePricingHandler)

	r.Route("/customers/{customerID}/draft", func(r chi.Router) {
		r.Get("/", h.getDraftHandler)
		r.Put("/", h.saveDraftHandler)
		r.Delete("/", h.deleteDraftHandler)
		r.Post("/quote", h.quoteDraftHandler)
	})

	r.Post("/drivers/{driverID}/notify-route", h.notifyRouteHandler)
	r.Post("/drivers/{driverID}/notify-pay", h.notifyPayHandler)
}

func (h *Handler) log(r *http.Request) *zap.SugaredLogger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
