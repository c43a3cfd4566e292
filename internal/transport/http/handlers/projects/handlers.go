package projecthandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	service *projects.Service
}

func NewHandler(service *projects.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole("admin", "manager")).Post("/", h.handleCreate)
		r.Get("/{projectID}", h.handleGet)
		r.Get("/{projectID}/completion", h.handleCompletion)
		r.With(middleware.RequireRole("admin", "manager")).Post("/{projectID}/scopes", h.handleCreateScope)
		r.With(middleware.RequireRole("admin", "manager")).Post("/{projectID}/work-items", h.handleCreateWorkItem)
	})
	r.With(middleware.RequireRole("admin", "manager")).Post("/scopes/{scopeID}/sub-scopes", h.handleCreateSubScope)
	r.With(middleware.RequireRole("admin", "manager")).Post("/sub-scopes/{subScopeID}/quantities", h.handleCreateQuantity)
	r.Put("/quantities/{quantityID}/progress", h.handleProgress)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filter := projects.Filter{
		ClientID:     r.URL.Query().Get("clientId"),
		ContractorID: r.URL.Query().Get("contractorId"),
		Status:       r.URL.Query().Get("status"),
	}
	list, err := h.service.Store().ListProjects(r.Context(), identity.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_list_failed", "failed to list projects", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	project, err := h.service.Store().GetProject(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_get_failed", "failed to load project", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, project, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		ClientID     string  `json:"clientId"`
		ContractorID string  `json:"contractorId"`
		Name         string  `json:"name"`
		Value        float64 `json:"value"`
		Status       string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("clientId", payload.ClientID, "client id is required")
	validator.Required("name", payload.Name, "name is required")
	validator.NonNegative("value", payload.Value)
	validator.Enum("status", payload.Status,
		[]string{projects.StatusActive, projects.StatusCompleted, projects.StatusOnHold},
		"status must be active, completed or on_hold")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if payload.Status == "" {
		payload.Status = projects.StatusActive
	}

	id, err := h.service.Store().CreateProject(r.Context(), projects.Project{
		CompanyID:    identity.CompanyID,
		ClientID:     payload.ClientID,
		ContractorID: payload.ContractorID,
		Name:         payload.Name,
		Value:        decimal.NewFromFloat(payload.Value),
		Status:       payload.Status,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	completion, err := h.service.Completion(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "completion_failed", "failed to compute completion", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, completion, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateScope(w http.ResponseWriter, r *http.Request) {
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

	id, err := h.service.Store().CreateScope(r.Context(), identity.CompanyID, projects.Scope{
		ProjectID: chi.URLParam(r, "projectID"),
		Name:      payload.Name,
	})
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "scope_create_failed", "failed to create scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateSubScope(w http.ResponseWriter, r *http.Request) {
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

	id, err := h.service.Store().CreateSubScope(r.Context(), identity.CompanyID, projects.SubScope{
		ScopeID: chi.URLParam(r, "scopeID"),
		Name:    payload.Name,
	})
	if errors.Is(err, projects.ErrScopeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "scope not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sub_scope_create_failed", "failed to create sub scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateWorkItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		Code        string  `json:"code"`
		Description string  `json:"description"`
		Unit        string  `json:"unit"`
		UnitPrice   float64 `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("code", payload.Code, "code is required")
	validator.Required("unit", payload.Unit, "unit is required")
	validator.NonNegative("unitPrice", payload.UnitPrice)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.service.Store().CreateWorkItem(r.Context(), identity.CompanyID, projects.WorkItem{
		ProjectID:   chi.URLParam(r, "projectID"),
		Code:        payload.Code,
		Description: payload.Description,
		Unit:        payload.Unit,
		UnitPrice:   decimal.NewFromFloat(payload.UnitPrice),
	})
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "work_item_create_failed", "failed to create work item", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateQuantity(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		WorkItemID string  `json:"workItemId"`
		Quantity   float64 `json:"quantity"`
		Completed  float64 `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("workItemId", payload.WorkItemID, "work item id is required")
	validator.NonNegative("quantity", payload.Quantity)
	validator.NonNegative("completed", payload.Completed)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.service.CreateQuantity(r.Context(), identity.CompanyID, projects.WorkItemQuantity{
		SubScopeID: chi.URLParam(r, "subScopeID"),
		WorkItemID: payload.WorkItemID,
		Quantity:   payload.Quantity,
		Completed:  payload.Completed,
	})
	switch {
	case errors.Is(err, projects.ErrSubScopeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "sub scope not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, projects.ErrWorkItemNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "work item not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, projects.ErrCompletedExceedsQuantity):
		api.Fail(w, http.StatusBadRequest, "completed_exceeds_quantity", "completed must not exceed quantity", middleware.GetRequestID(r.Context()))
	case errors.Is(err, projects.ErrNegativeProgress):
		api.Fail(w, http.StatusBadRequest, "negative_progress", "completed must not be negative", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "quantity_create_failed", "failed to create quantity", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		Completed float64 `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	quantity, err := h.service.ReportProgress(r.Context(), identity.CompanyID, chi.URLParam(r, "quantityID"), payload.Completed)
	switch {
	case errors.Is(err, projects.ErrQuantityNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "quantity not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, projects.ErrNegativeProgress):
		api.Fail(w, http.StatusBadRequest, "negative_progress", "completed must not be negative", middleware.GetRequestID(r.Context()))
	case errors.Is(err, projects.ErrCompletedExceedsQuantity):
		api.Fail(w, http.StatusBadRequest, "completed_exceeds_quantity", "completed must not exceed quantity", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "progress_update_failed", "failed to update progress", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, quantity, middleware.GetRequestID(r.Context()))
	}
}
