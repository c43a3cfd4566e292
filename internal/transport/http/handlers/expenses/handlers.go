package expensehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/expenses"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	store *expenses.Store
}

func NewHandler(store *expenses.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{expenseID}", h.handleGet)
		r.With(middleware.RequireRole("admin")).Delete("/{expenseID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filter := expenses.Filter{
		ProjectID: r.URL.Query().Get("projectId"),
		VendorID:  r.URL.Query().Get("vendorId"),
		Category:  r.URL.Query().Get("category"),
	}
	if from, err := shared.ParseDate(r.URL.Query().Get("from")); err == nil {
		filter.From = from
	}
	if to, err := shared.ParseDate(r.URL.Query().Get("to")); err == nil {
		filter.To = to
	}

	list, err := h.store.List(r.Context(), identity.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_list_failed", "failed to list expenses", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	expense, err := h.store.Get(r.Context(), identity.CompanyID, chi.URLParam(r, "expenseID"))
	if errors.Is(err, expenses.ErrExpenseNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_get_failed", "failed to load expense", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, expense, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		ProjectID   string  `json:"projectId"`
		VendorID    string  `json:"vendorId"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("category", payload.Category, "category is required")
	validator.NonNegative("amount", payload.Amount)
	date, _ := validator.Date("date", payload.Date)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.store.Create(r.Context(), expenses.Expense{
		CompanyID:   identity.CompanyID,
		ProjectID:   payload.ProjectID,
		VendorID:    payload.VendorID,
		Category:    payload.Category,
		Amount:      decimal.NewFromFloat(payload.Amount),
		Date:        date,
		Description: payload.Description,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_create_failed", "failed to create expense", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	err := h.store.Delete(r.Context(), identity.CompanyID, chi.URLParam(r, "expenseID"))
	if errors.Is(err, expenses.ErrExpenseNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_delete_failed", "failed to delete expense", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}
