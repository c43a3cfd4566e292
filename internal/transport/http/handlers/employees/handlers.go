package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/employees"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	store *employees.Store
}

func NewHandler(store *employees.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequireRole("admin")).Delete("/{employeeID}", h.handleDeactivate)
	})
}

type employeePayload struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Type         string  `json:"type"`
	Rate         float64 `json:"rate"`
	UnionClassID string  `json:"unionClassId"`
	Active       *bool   `json:"active"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filter := employees.Filter{
		Type:         r.URL.Query().Get("type"),
		UnionClassID: r.URL.Query().Get("unionClassId"),
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	list, err := h.store.List(r.Context(), identity.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	employee, err := h.store.Get(r.Context(), identity.CompanyID, chi.URLParam(r, "employeeID"))
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("firstName", payload.FirstName, "first name is required")
	validator.Required("lastName", payload.LastName, "last name is required")
	validator.Enum("type", payload.Type, []string{employees.TypeLocal, employees.TypeUnion}, "type must be local or union")
	validator.NonNegative("rate", payload.Rate)
	if payload.Type == employees.TypeUnion {
		validator.Required("unionClassId", payload.UnionClassID, "union employees need a union class")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employee := employees.Employee{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Type:         payload.Type,
		Rate:         decimal.NewFromFloat(payload.Rate),
		UnionClassID: payload.UnionClassID,
		Active:       true,
	}
	id, err := h.store.Create(r.Context(), identity.CompanyID, employee)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Enum("type", payload.Type, []string{employees.TypeLocal, employees.TypeUnion}, "type must be local or union")
	validator.NonNegative("rate", payload.Rate)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}
	employee := employees.Employee{
		ID:           chi.URLParam(r, "employeeID"),
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Type:         payload.Type,
		Rate:         decimal.NewFromFloat(payload.Rate),
		UnionClassID: payload.UnionClassID,
		Active:       active,
	}
	err := h.store.Update(r.Context(), identity.CompanyID, employee)
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": employee.ID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	err := h.store.Deactivate(r.Context(), identity.CompanyID, chi.URLParam(r, "employeeID"))
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_deactivate_failed", "failed to deactivate employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"deactivated": true}, middleware.GetRequestID(r.Context()))
}
