package reporthandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xpertfs/xpert-app-backend/internal/domain/finance"
	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/api"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/shared"
)

type Handler struct {
	service *finance.Service
}

func NewHandler(service *finance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports/projects/{projectID}", func(r chi.Router) {
		r.Get("/financials", h.handleFinancials)
		r.Get("/projected", h.handleProjected)
		r.Get("/trend", h.handleTrend)
		r.Get("/statement", h.handleStatement)
	})
}

func (h *Handler) handleFinancials(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	financials, err := h.service.ProjectFinancials(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "financials_failed", "failed to compute financials", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, financials, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProjected(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	projected, err := h.service.ProjectedFinancials(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "projection_failed", "failed to compute projection", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, projected, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		to = parsed
	}

	trend, err := h.service.Trend(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"), from, to)
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "trend_failed", "failed to compute trend", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, trend, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	identity, _ := requestctx.GetIdentity(r.Context())

	filePath, err := h.service.GenerateStatementPDF(r.Context(), identity.CompanyID, chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "failed to generate statement", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.pdf"`)
	http.ServeFile(w, r, filePath)
}
