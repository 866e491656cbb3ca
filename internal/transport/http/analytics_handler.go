package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/middleware"
	"github.com/burevuh-next/logistics-analyzer/internal/services"
	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
)

// Default listing sizes when ?top= is absent
const (
	DefaultTopRoutes     = 10
	DefaultTopProfitable = 3
)

// AnalyticsHandler serves the dashboard API
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:      service,
		validator:    middleware.NewValidator(errorHandler, logger),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "analytics_handler")),
	}
}

// Routes returns the analytics routes, mounted under /api/v1
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/kpis", h.GetKPIs)
	r.Route("/carriers", func(r chi.Router) {
		r.Get("/", h.GetCarriers)
		r.Get("/costs", h.GetCarrierCosts)
	})
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", h.GetRoutes)
		r.Get("/profitable", h.GetProfitableRoutes)
	})
	r.Get("/seasonal", h.GetSeasonal)
	r.Get("/summary", h.GetSummary)
	return r
}

// GetKPIs handles GET /api/v1/kpis
func (h *AnalyticsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.KPIs(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetCarriers handles GET /api/v1/carriers
func (h *AnalyticsHandler) GetCarriers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Carriers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetCarrierCosts handles GET /api/v1/carriers/costs
func (h *AnalyticsHandler) GetCarrierCosts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CarrierCosts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetRoutes handles GET /api/v1/routes?top=
func (h *AnalyticsHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	top, ok := h.top(w, r, DefaultTopRoutes)
	if !ok {
		return
	}
	resp, err := h.service.Routes(r.Context(), top)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetProfitableRoutes handles GET /api/v1/routes/profitable?top=
func (h *AnalyticsHandler) GetProfitableRoutes(w http.ResponseWriter, r *http.Request) {
	top, ok := h.top(w, r, DefaultTopProfitable)
	if !ok {
		return
	}
	resp, err := h.service.ProfitableRoutes(r.Context(), top)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetSeasonal handles GET /api/v1/seasonal
func (h *AnalyticsHandler) GetSeasonal(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Seasonal(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetSummary handles GET /api/v1/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// top parses and validates the ?top= parameter
func (h *AnalyticsHandler) top(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	top, ok := h.validator.QueryInt(w, r, "top", def)
	if !ok {
		return 0, false
	}
	if !h.validator.Check(w, r, api.TopNRequest{Top: top}) {
		return 0, false
	}
	return top, true
}

func (h *AnalyticsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDatasetConfigured) {
		err = apperrors.ErrDatasetNotLoaded
	}
	h.errorHandler.HandleError(w, r, err)
}
