package laborhandler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/employees"
	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	service *labor.Service
}

func NewHandler(service *labor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/time-entries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/import", h.handleImport)
		r.With(middleware.RequireRole("admin", "manager")).Post("/approve", h.handleApprove)
		r.With(middleware.RequireRole("admin", "manager")).Post("/cancel", h.handleCancel)
		r.Put("/{entryID}", h.handleUpdate)
		r.Delete("/{entryID}", h.handleDelete)
	})
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.handleListPayments)
		r.Get("/{paymentID}", h.handleGetPayment)
		r.With(middleware.RequireRole("admin")).Post("/settle", h.handleSettle)
	})
}

type entryPayload struct {
	EmployeeID    string  `json:"employeeId"`
	Date          string  `json:"date"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	DoubleHours   float64 `json:"doubleHours"`
	ProjectID     string  `json:"projectId"`
	PaymentStatus string  `json:"paymentStatus"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filter := labor.EntryFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		ProjectID:  r.URL.Query().Get("projectId"),
		Status:     r.URL.Query().Get("status"),
	}
	if from, err := shared.ParseDate(r.URL.Query().Get("from")); err == nil {
		filter.From = from
	}
	if to, err := shared.ParseDate(r.URL.Query().Get("to")); err == nil {
		filter.To = to
	}
	page := shared.ParsePagination(r, 100, 500)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	entries, err := h.service.Store().ListEntries(r.Context(), identity.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "time_entry_list_failed", "failed to list time entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employeeId", payload.EmployeeID, "employee id is required")
	validator.NonNegative("regularHours", payload.RegularHours)
	validator.NonNegative("overtimeHours", payload.OvertimeHours)
	validator.NonNegative("doubleHours", payload.DoubleHours)
	date, _ := validator.Date("date", payload.Date)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), identity.CompanyID, labor.TimeEntry{
		EmployeeID:    payload.EmployeeID,
		Date:          date,
		RegularHours:  payload.RegularHours,
		OvertimeHours: payload.OvertimeHours,
		DoubleHours:   payload.DoubleHours,
		ProjectID:     payload.ProjectID,
	})
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "time_entry_create_failed", "failed to create time entry", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, entry, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.NonNegative("regularHours", payload.RegularHours)
	validator.NonNegative("overtimeHours", payload.OvertimeHours)
	validator.NonNegative("doubleHours", payload.DoubleHours)
	date, _ := validator.Date("date", payload.Date)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), identity.CompanyID, chi.URLParam(r, "entryID"), labor.EntryUpdate{
		Date:          date,
		RegularHours:  payload.RegularHours,
		OvertimeHours: payload.OvertimeHours,
		DoubleHours:   payload.DoubleHours,
		ProjectID:     payload.ProjectID,
		PaymentStatus: payload.PaymentStatus,
	})
	switch {
	case errors.Is(err, labor.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "time entry not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, labor.ErrEntryLocked):
		api.Fail(w, http.StatusConflict, "entry_locked", "paid entries cannot be modified", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "time_entry_update_failed", "failed to update time entry", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, entry, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	err := h.service.DeleteEntry(r.Context(), identity.CompanyID, chi.URLParam(r, "entryID"))
	switch {
	case errors.Is(err, labor.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "time entry not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, labor.ErrEntryLocked):
		api.Fail(w, http.StatusConflict, "entry_locked", "paid entries cannot be deleted", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "time_entry_delete_failed", "failed to delete time entry", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
	}
}

type batchPayload struct {
	EntryIDs []string `json:"entryIds"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload batchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	affected, err := h.service.Approve(r.Context(), identity.CompanyID, payload.EntryIDs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "time_entry_approve_failed", "failed to approve time entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int64{"approved": affected}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload batchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	affected, err := h.service.Cancel(r.Context(), identity.CompanyID, payload.EntryIDs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "time_entry_cancel_failed", "failed to cancel time entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int64{"cancelled": affected}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var payload struct {
		EmployeeID  string   `json:"employeeId"`
		EntryIDs    []string `json:"entryIds"`
		PaymentDate string   `json:"paymentDate"`
		Deductions  float64  `json:"deductions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employeeId", payload.EmployeeID, "employee id is required")
	validator.NonNegative("deductions", payload.Deductions)
	paymentDate, _ := validator.Date("paymentDate", payload.PaymentDate)
	if len(payload.EntryIDs) == 0 {
		validator.Add("entryIds", "at least one entry id is required")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	payment, err := h.service.Settle(r.Context(), identity.CompanyID, payload.EmployeeID,
		payload.EntryIDs, paymentDate, decimal.NewFromFloat(payload.Deductions))
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, labor.ErrNoPayableEntries):
		api.Fail(w, http.StatusUnprocessableEntity, "no_payable_entries", "no approved entries for employee in batch", middleware.GetRequestID(r.Context()))
	case errors.Is(err, rates.ErrRateNotConfigured):
		api.Fail(w, http.StatusUnprocessableEntity, "rate_not_configured", "employee has no rate for payment date", middleware.GetRequestID(r.Context()))
	case errors.Is(err, labor.ErrTransactionConflict):
		api.Fail(w, http.StatusConflict, "settlement_conflict", "concurrent settlement, retry the request", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "settlement_failed", "failed to settle entries", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, payment, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filter := labor.PaymentFilter{EmployeeID: r.URL.Query().Get("employeeId")}
	if from, err := shared.ParseDate(r.URL.Query().Get("from")); err == nil {
		filter.From = from
	}
	if to, err := shared.ParseDate(r.URL.Query().Get("to")); err == nil {
		filter.To = to
	}
	page := shared.ParsePagination(r, 100, 500)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	payments, err := h.service.Store().ListPayments(r.Context(), identity.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payment_list_failed", "failed to list payments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, payments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	payment, err := h.service.Store().GetPayment(r.Context(), identity.CompanyID, chi.URLParam(r, "paymentID"))
	switch {
	case errors.Is(err, labor.ErrPaymentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payment not found", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payment_get_failed", "failed to load payment", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, payment, middleware.GetRequestID(r.Context()))
	}
}

// handleImport accepts spreadsheet-exported rows:
// employee_id,date,regular_hours,overtime_hours,double_hours,project_id
// A header row is detected and skipped. The file is parsed and validated in
// full before anything is written.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	reader := csv.NewReader(r.Body)
	reader.FieldsPerRecord = -1

	var entries []labor.TimeEntry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_csv", "failed to parse csv", middleware.GetRequestID(r.Context()))
			return
		}
		line++
		if line == 1 && record[0] == "employee_id" {
			continue
		}
		if len(record) < 5 {
			api.Fail(w, http.StatusBadRequest, "invalid_csv", "csv row "+strconv.Itoa(line)+" has too few columns", middleware.GetRequestID(r.Context()))
			return
		}

		date, err := shared.ParseDate(record[1])
		if err != nil || date.IsZero() {
			api.Fail(w, http.StatusBadRequest, "invalid_csv", "csv row "+strconv.Itoa(line)+" has an invalid date", middleware.GetRequestID(r.Context()))
			return
		}
		regular, err1 := strconv.ParseFloat(record[2], 64)
		overtime, err2 := strconv.ParseFloat(record[3], 64)
		double, err3 := strconv.ParseFloat(record[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || regular < 0 || overtime < 0 || double < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_csv", "csv row "+strconv.Itoa(line)+" has invalid hours", middleware.GetRequestID(r.Context()))
			return
		}

		entry := labor.TimeEntry{
			EmployeeID:    record[0],
			Date:          date,
			RegularHours:  regular,
			OvertimeHours: overtime,
			DoubleHours:   double,
		}
		if len(record) > 5 {
			entry.ProjectID = record[5]
		}
		entries = append(entries, entry)
	}

	imported, err := h.service.ImportEntries(r.Context(), identity.CompanyID, entries)
	if err != nil {
		api.FailWithDetails(w, http.StatusInternalServerError, "import_failed", "import stopped on error",
			map[string]any{"imported": imported}, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]int{"imported": imported}, middleware.GetRequestID(r.Context()))
}
