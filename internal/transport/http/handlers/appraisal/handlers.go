package appraisalhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/appraisal"
	"appraise/internal/domain/auth"
	"appraise/internal/platform/letter"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

type Handler struct {
	Service *appraisal.Service
}

func NewHandler(service *appraisal.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	configWrite := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR)
	reviewers := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleManager)
	authed := middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleManager, auth.RoleEmployee)

	r.Route("/cycles", func(r chi.Router) {
		r.Get("/", h.handleListCycles)
		r.With(configWrite).Post("/", h.handleCreateCycle)
		r.Get("/{cycleID}", h.handleGetCycle)
		r.With(configWrite).Put("/{cycleID}", h.handleUpdateCycle)
		r.With(configWrite).Delete("/{cycleID}", h.handleDeleteCycle)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.handleListTemplates)
		r.With(configWrite).Post("/", h.handleCreateTemplate)
		r.Get("/{templateID}", h.handleGetTemplate)
		r.With(configWrite).Put("/{templateID}", h.handleUpdateTemplate)
		r.With(configWrite).Delete("/{templateID}", h.handleDeleteTemplate)
		r.With(configWrite).Post("/{templateID}/duplicate", h.handleDuplicateTemplate)
		r.Get("/{templateID}/weights", h.handleTemplateWeights)
		r.With(configWrite).Post("/{templateID}/sections", h.handleCreateSection)
	})

	r.Route("/sections/{sectionID}", func(r chi.Router) {
		r.With(configWrite).Put("/", h.handleUpdateSection)
		r.With(configWrite).Delete("/", h.handleDeleteSection)
		r.With(configWrite).Post("/criteria", h.handleCreateCriterion)
	})

	r.Route("/criteria/{criterionID}", func(r chi.Router) {
		r.With(configWrite).Put("/", h.handleUpdateCriterion)
		r.With(configWrite).Delete("/", h.handleDeleteCriterion)
	})

	r.Route("/appraisals", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(reviewers).Post("/", h.handleCreate)
		r.Get("/{appraisalID}", h.handleGet)
		r.With(configWrite).Delete("/{appraisalID}", h.handleDelete)

		r.With(authed).Post("/{appraisalID}/start-self-assessment", h.handleStartSelfAssessment)
		r.With(authed).Post("/{appraisalID}/submit-self-assessment", h.handleSubmitSelfAssessment)
		r.With(reviewers).Post("/{appraisalID}/submit-manager-review", h.handleSubmitManagerReview)
		r.With(reviewers).Post("/{appraisalID}/submit-committee-review", h.handleSubmitCommitteeReview)
		r.With(configWrite).Post("/{appraisalID}/approve", h.handleApprove)
		r.With(configWrite).Post("/{appraisalID}/communicate", h.handleCommunicate)
		r.With(authed).Post("/{appraisalID}/acknowledge", h.handleAcknowledge)
		r.With(reviewers).Post("/{appraisalID}/reject", h.handleReject)

		r.Get("/{appraisalID}/score", h.handleScore)
		r.Get("/{appraisalID}/ratings", h.handleListRatings)
		r.With(authed).Put("/{appraisalID}/ratings/{criterionID}", h.handleUpsertRating)
		r.Get("/{appraisalID}/letter", h.handleLetter)

		r.Get("/{appraisalID}/goals", h.handleListGoals)
		r.With(authed).Post("/{appraisalID}/goals", h.handleCreateGoal)
		r.With(authed).Put("/{appraisalID}/goals/{goalID}", h.handleUpdateGoal)
		r.With(authed).Delete("/{appraisalID}/goals/{goalID}", h.handleDeleteGoal)

		r.Get("/{appraisalID}/training-needs", h.handleListTrainingNeeds)
		r.With(reviewers).Post("/{appraisalID}/training-needs", h.handleCreateTrainingNeed)
		r.With(reviewers).Delete("/{appraisalID}/training-needs/{needID}", h.handleDeleteTrainingNeed)
	})
}

// fail maps domain sentinels to response codes; anything unmapped is a
// logged 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, appraisal.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, appraisal.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, appraisal.ErrStaleTransition):
		api.Fail(w, http.StatusConflict, "stale_transition", err.Error(), reqID)
	case errors.Is(err, appraisal.ErrStageLocked):
		api.Fail(w, http.StatusConflict, "stage_locked", err.Error(), reqID)
	case errors.Is(err, appraisal.ErrCycleInUse), errors.Is(err, appraisal.ErrTemplateInUse):
		api.Fail(w, http.StatusConflict, "in_use", err.Error(), reqID)
	case errors.Is(err, appraisal.ErrInvalidRating), errors.Is(err, appraisal.ErrInvalidPerspective):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
	default:
		slog.Error("appraisal request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}

func (h *Handler) failPayload(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
}

type cyclePayload struct {
	Name               string `json:"name"`
	FiscalYear         int    `json:"fiscalYear"`
	CycleType          string `json:"cycleType"`
	SelfAssessmentDue  string `json:"selfAssessmentDue"`
	ManagerReviewDue   string `json:"managerReviewDue"`
	CommitteeReviewDue string `json:"committeeReviewDue"`
	FinalApprovalDue   string `json:"finalApprovalDue"`
	Status             string `json:"status"`
}

func (p cyclePayload) toCycle() (appraisal.Cycle, error) {
	cycle := appraisal.Cycle{
		Name:       p.Name,
		FiscalYear: p.FiscalYear,
		CycleType:  p.CycleType,
		Status:     p.Status,
	}
	var err error
	if cycle.SelfAssessmentDue, err = shared.ParseDate(p.SelfAssessmentDue); err != nil {
		return appraisal.Cycle{}, fmt.Errorf("selfAssessmentDue: %w", err)
	}
	if cycle.ManagerReviewDue, err = shared.ParseDate(p.ManagerReviewDue); err != nil {
		return appraisal.Cycle{}, fmt.Errorf("managerReviewDue: %w", err)
	}
	if cycle.CommitteeReviewDue, err = shared.ParseDate(p.CommitteeReviewDue); err != nil {
		return appraisal.Cycle{}, fmt.Errorf("committeeReviewDue: %w", err)
	}
	if cycle.FinalApprovalDue, err = shared.ParseDate(p.FinalApprovalDue); err != nil {
		return appraisal.Cycle{}, fmt.Errorf("finalApprovalDue: %w", err)
	}
	return cycle, nil
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Service.ListCycles(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var payload cyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	cycle, err := payload.toCycle()
	if err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateCycle(r.Context(), cycle)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCycle(w http.ResponseWriter, r *http.Request) {
	var payload cyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	cycle, err := payload.toCycle()
	if err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateCycle(r.Context(), chi.URLParam(r, "cycleID"), cycle)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCycle(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCycle(r.Context(), chi.URLParam(r, "cycleID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	templates, err := h.Service.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

type templatePayload struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateTemplate(r.Context(), payload.Name, payload.Type, payload.IsActive)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.Service.GetTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, template, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateTemplate(r.Context(), chi.URLParam(r, "templateID"), payload.Name, payload.Type, payload.IsActive)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTemplate(r.Context(), chi.URLParam(r, "templateID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDuplicateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	clone, err := h.Service.DuplicateTemplate(r.Context(), chi.URLParam(r, "templateID"), payload.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, clone, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTemplateWeights(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.TemplateWeights(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Section
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateSection(r.Context(), chi.URLParam(r, "templateID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Section
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateSection(r.Context(), chi.URLParam(r, "sectionID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSection(r.Context(), chi.URLParam(r, "sectionID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Criterion
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateCriterion(r.Context(), chi.URLParam(r, "sectionID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Criterion
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.UpdateCriterion(r.Context(), chi.URLParam(r, "criterionID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCriterion(r.Context(), chi.URLParam(r, "criterionID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := appraisal.ListFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		CycleID:    r.URL.Query().Get("cycleId"),
		Status:     r.URL.Query().Get("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	appraisals, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, appraisals, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

// handleGet returns the detail view: the appraisal together with its
// ratings, goals and training needs.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	appraisalID := chi.URLParam(r, "appraisalID")
	found, err := h.Service.Get(r.Context(), appraisalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ratings, err := h.Service.Ratings(r.Context(), appraisalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	goals, err := h.Service.Goals(r.Context(), appraisalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	needs, err := h.Service.TrainingNeeds(r.Context(), appraisalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"appraisal":     found,
		"ratings":       ratings,
		"goals":         goals,
		"trainingNeeds": needs,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "appraisalID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartSelfAssessment(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Service.StartSelfAssessment(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitSelfAssessment(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.SelfAssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	result, err := h.Service.SubmitSelfAssessment(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitManagerReview(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.ManagerReviewInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	result, err := h.Service.SubmitManagerReview(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitCommitteeReview(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.CommitteeReviewInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	result, err := h.Service.SubmitCommitteeReview(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.ApprovalInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	if payload.ApprovedBy == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			payload.ApprovedBy = user.UserID
		}
	}
	updated, err := h.Service.Approve(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCommunicate(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Service.Communicate(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	updated, err := h.Service.Acknowledge(r.Context(), chi.URLParam(r, "appraisalID"), payload.Feedback)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.RejectInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	if payload.RejectedBy == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			payload.RejectedBy = user.UserID
		}
	}
	updated, err := h.Service.Reject(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	perspective, err := appraisal.ParsePerspective(r.URL.Query().Get("perspective"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	score, incomplete, err := h.Service.ScoreAppraisal(r.Context(), chi.URLParam(r, "appraisalID"), perspective)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"score":              score,
		"incompleteCriteria": incomplete,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.Service.Ratings(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, ratings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsertRating(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Perspective string `json:"perspective"`
		Value       int    `json:"value"`
		Comment     string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	perspective, err := appraisal.ParsePerspective(payload.Perspective)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rating, err := h.Service.UpsertRating(r.Context(), chi.URLParam(r, "appraisalID"), chi.URLParam(r, "criterionID"), perspective, payload.Value, payload.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rating, middleware.GetRequestID(r.Context()))
}

// handleLetter streams the outcome letter once the result has been
// communicated to the employee.
func (h *Handler) handleLetter(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if found.CommunicatedAt == nil {
		api.Fail(w, http.StatusConflict, "not_communicated", "outcome has not been communicated yet", middleware.GetRequestID(r.Context()))
		return
	}
	pdf, err := letter.Outcome(found)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", found.Reference))
	_, _ = w.Write(pdf)
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.Goals(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, goals, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Goal
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateGoal(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.Goal
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

func (h *Handler) handleListTrainingNeeds(w http.ResponseWriter, r *http.Request) {
	needs, err := h.Service.TrainingNeeds(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, needs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTrainingNeed(w http.ResponseWriter, r *http.Request) {
	var payload appraisal.TrainingNeed
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failPayload(w, r)
		return
	}
	created, err := h.Service.CreateTrainingNeed(r.Context(), chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTrainingNeed(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTrainingNeed(r.Context(), chi.URLParam(r, "needID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}
