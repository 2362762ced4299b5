package probationhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/auth"
	"appraise/internal/domain/probation"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

type Handler struct {
	Service *probation.Service
}

func NewHandler(service *probation.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	hrOnly := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR)
	reviewers := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleManager)

	r.Route("/probations", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(hrOnly).Post("/", h.handleCreate)
		r.Get("/{probationID}", h.handleGet)
		r.With(hrOnly).Delete("/{probationID}", h.handleDelete)

		r.With(hrOnly).Post("/{probationID}/extend", h.handleExtend)
		r.With(hrOnly).Post("/{probationID}/confirm", h.handleConfirm)
		r.With(hrOnly).Post("/{probationID}/terminate", h.handleTerminate)
		r.Get("/{probationID}/extensions", h.handleListExtensions)

		r.Get("/{probationID}/kpis", h.handleListKPIs)
		r.With(reviewers).Post("/{probationID}/kpis", h.handleCreateKPI)
		r.With(reviewers).Put("/{probationID}/kpis/{kpiID}", h.handleUpdateKPI)
		r.With(reviewers).Delete("/{probationID}/kpis/{kpiID}", h.handleDeleteKPI)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, probation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, probation.ErrExtensionLimit):
		api.Fail(w, http.StatusConflict, "extension_limit", err.Error(), reqID)
	case errors.Is(err, probation.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, probation.ErrStaleTransition):
		api.Fail(w, http.StatusConflict, "stale_transition", err.Error(), reqID)
	default:
		slog.Error("probation request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}

func (h *Handler) failPayload(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID   string `json:"employeeId"`
		StartDate    string `json:"startDate"`
		PeriodMonths int    `json:"periodMonths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil || startDate.IsZero() || payload.PeriodMonths <= 0 {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.Create(r.Context(), probation.CreateInput{
		EmployeeID:   payload.EmployeeID,
		StartDate:    startDate,
		PeriodMonths: payload.PeriodMonths,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "probationID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "probationID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	var payload probation.ExtendInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	if payload.Months <= 0 {
		h.failPayload(w, r)
		return
	}
	if payload.ApprovedBy == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			payload.ApprovedBy = user.UserID
		}
	}
	record, err := h.Service.Extend(r.Context(), chi.URLParam(r, "probationID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AppraisalID string `json:"appraisalId"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	record, err := h.Service.Confirm(r.Context(), chi.URLParam(r, "probationID"), payload.AppraisalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	record, err := h.Service.Terminate(r.Context(), chi.URLParam(r, "probationID"), payload.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListExtensions(w http.ResponseWriter, r *http.Request) {
	extensions, err := h.Service.Extensions(r.Context(), chi.URLParam(r, "probationID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, extensions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.Service.KPIs(r.Context(), chi.URLParam(r, "probationID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, kpis, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	var payload probation.KPI
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateKPI(r.Context(), chi.URLParam(r, "probationID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	var payload probation.KPI
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateKPI(r.Context(), chi.URLParam(r, "kpiID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteKPI(r.Context(), chi.URLParam(r, "kpiID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}
