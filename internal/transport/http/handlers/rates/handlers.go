package ratehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	service *rates.Service
}

func NewHandler(service *rates.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/union-classes", func(r chi.Router) {
		r.Get("/", h.handleListClasses)
		r.With(middleware.RequireRole("admin")).Post("/", h.handleCreateClass)
		r.Get("/{classID}/rates", h.handleListBaseRates)
		r.With(middleware.RequireRole("admin")).Post("/{classID}/rates", h.handleAddBaseRate)
		r.Get("/{classID}/rates/effective", h.handleResolve)
		r.Get("/{classID}/custom-rates", h.handleListCustomRates)
		r.With(middleware.RequireRole("admin")).Post("/{classID}/custom-rates", h.handleAddCustomRate)
	})
}

func (h *Handler) handleListClasses(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	classes, err := h.service.Store().ListUnionClasses(r.Context(), identity.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "union_class_list_failed", "failed to list union classes", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, classes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "name is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.service.Store().CreateUnionClass(r.Context(), identity.CompanyID, payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "union_class_create_failed", "failed to create union class", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListBaseRates(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	history, err := h.service.Store().ListBaseRates(r.Context(), identity.CompanyID, chi.URLParam(r, "classID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "base_rate_list_failed", "failed to list base rates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddBaseRate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		RegularRate   float64 `json:"regularRate"`
		OvertimeRate  float64 `json:"overtimeRate"`
		DoubleRate    float64 `json:"doubleRate"`
		EffectiveDate string  `json:"effectiveDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.NonNegative("regularRate", payload.RegularRate)
	validator.NonNegative("overtimeRate", payload.OvertimeRate)
	validator.NonNegative("doubleRate", payload.DoubleRate)
	effectiveDate, _ := validator.Date("effectiveDate", payload.EffectiveDate)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rate, err := h.service.AddBaseRate(r.Context(), identity.CompanyID, rates.BaseRate{
		UnionClassID:  chi.URLParam(r, "classID"),
		RegularRate:   decimal.NewFromFloat(payload.RegularRate),
		OvertimeRate:  decimal.NewFromFloat(payload.OvertimeRate),
		DoubleRate:    decimal.NewFromFloat(payload.DoubleRate),
		EffectiveDate: effectiveDate,
	})
	switch {
	case errors.Is(err, rates.ErrUnionClassNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "union class not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, rates.ErrInvalidRate):
		api.Fail(w, http.StatusBadRequest, "invalid_rate", "base rate must be positive", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "base_rate_create_failed", "failed to add base rate", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, rate, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	validator := shared.NewValidator()
	asOf, ok := validator.Date("asOf", r.URL.Query().Get("asOf"))
	if !ok {
		validator.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}

	rate, err := h.service.Resolve(r.Context(), identity.CompanyID, chi.URLParam(r, "classID"), asOf)
	switch {
	case errors.Is(err, rates.ErrRateNotConfigured):
		api.Fail(w, http.StatusNotFound, "rate_not_configured", "no base rate configured for date", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "rate_resolve_failed", "failed to resolve rate", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, rate, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleListCustomRates(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	list, err := h.service.Store().ListCustomRates(r.Context(), identity.CompanyID, chi.URLParam(r, "classID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "custom_rate_list_failed", "failed to list custom rates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddCustomRate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		Name  string  `json:"name"`
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "name is required")
	validator.Enum("type", payload.Type, []string{rates.CustomRateFlat, rates.CustomRatePercent}, "type must be flat or percent")
	validator.NonNegative("value", payload.Value)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rate, err := h.service.AddCustomRate(r.Context(), identity.CompanyID, rates.CustomRate{
		UnionClassID: chi.URLParam(r, "classID"),
		Name:         payload.Name,
		Type:         payload.Type,
		Value:        decimal.NewFromFloat(payload.Value),
	})
	switch {
	case errors.Is(err, rates.ErrUnionClassNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "union class not found", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "custom_rate_create_failed", "failed to add custom rate", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, rate, middleware.GetRequestID(r.Context()))
	}
}
