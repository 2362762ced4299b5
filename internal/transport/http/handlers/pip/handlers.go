package piphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/auth"
	"appraise/internal/domain/pip"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

type Handler struct {
	Service *pip.Service
}

func NewHandler(service *pip.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	reviewers := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleManager)
	hrOnly := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR)

	r.Route("/pips", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(reviewers).Post("/", h.handleCreate)
		r.Get("/{pipID}", h.handleGet)
		r.With(hrOnly).Delete("/{pipID}", h.handleDelete)

		r.With(reviewers).Post("/{pipID}/activate", h.handleActivate)
		r.With(reviewers).Post("/{pipID}/start-review", h.handleStartReview)
		r.With(reviewers).Post("/{pipID}/extend", h.handleExtend)
		r.With(reviewers).Post("/{pipID}/complete", h.handleComplete)

		r.Get("/{pipID}/check-ins", h.handleListCheckIns)
		r.With(reviewers).Post("/{pipID}/check-ins", h.handleRecordCheckIn)

		r.Get("/{pipID}/goals", h.handleListGoals)
		r.With(reviewers).Post("/{pipID}/goals", h.handleCreateGoal)
		r.With(reviewers).Put("/{pipID}/goals/{goalID}", h.handleUpdateGoal)
		r.With(reviewers).Delete("/{pipID}/goals/{goalID}", h.handleDeleteGoal)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, pip.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, pip.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, pip.ErrStaleTransition):
		api.Fail(w, http.StatusConflict, "stale_transition", err.Error(), reqID)
	case errors.Is(err, pip.ErrInvalidOutcome), errors.Is(err, pip.ErrInvalidRating):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
	default:
		slog.Error("improvement plan request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}

func (h *Handler) failPayload(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.List(r.Context(),
		r.URL.Query().Get("employeeId"),
		r.URL.Query().Get("managerId"),
		r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plans, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID    string `json:"employeeId"`
		ManagerID     string `json:"managerId"`
		Reason        string `json:"reason"`
		StartDate     string `json:"startDate"`
		DurationWeeks int    `json:"durationWeeks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil || startDate.IsZero() || payload.DurationWeeks <= 0 {
		h.failPayload(w, r)
		return
	}
	if payload.ManagerID == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			payload.ManagerID = user.UserID
		}
	}
	created, err := h.Service.Create(r.Context(), pip.CreateInput{
		EmployeeID:    payload.EmployeeID,
		ManagerID:     payload.ManagerID,
		Reason:        payload.Reason,
		StartDate:     startDate,
		DurationWeeks: payload.DurationWeeks,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Service.Get(r.Context(), chi.URLParam(r, "pipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "pipID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Service.Activate(r.Context(), chi.URLParam(r, "pipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Service.StartReview(r.Context(), chi.URLParam(r, "pipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Weeks int `json:"weeks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	if payload.Weeks <= 0 {
		h.failPayload(w, r)
		return
	}
	plan, err := h.Service.Extend(r.Context(), chi.URLParam(r, "pipID"), payload.Weeks)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	plan, err := h.Service.Complete(r.Context(), chi.URLParam(r, "pipID"), payload.Outcome)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	checkIns, err := h.Service.CheckIns(r.Context(), chi.URLParam(r, "pipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, checkIns, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordCheckIn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Date        string `json:"date"`
		Rating      int    `json:"rating"`
		Notes       string `json:"notes"`
		ActionItems string `json:"actionItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		h.failPayload(w, r)
		return
	}
	checkIn, err := h.Service.RecordCheckIn(r.Context(), chi.URLParam(r, "pipID"), pip.CheckInInput{
		Date:        date,
		Rating:      payload.Rating,
		Notes:       payload.Notes,
		ActionItems: payload.ActionItems,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, checkIn, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.Goals(r.Context(), chi.URLParam(r, "pipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, goals, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var payload pip.Goal
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateGoal(r.Context(), chi.URLParam(r, "pipID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var payload pip.Goal
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateGoal(r.Context(), chi.URLParam(r, "goalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteGoal(r.Context(), chi.URLParam(r, "goalID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}
