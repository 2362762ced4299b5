package appraisal

import (
	"context"
	"fmt"
)

type SubmitResult struct {
	Appraisal          Appraisal   `json:"appraisal"`
	Score              ScoreResult `json:"score"`
	IncompleteCriteria []string    `json:"incompleteCriteria,omitempty"`
}

type SelfAssessmentInput struct {
	Achievements string `json:"achievements"`
	Challenges   string `json:"challenges"`
	Comments     string `json:"comments"`
}

type ManagerReviewInput struct {
	Strengths               string `json:"strengths"`
	Improvements            string `json:"improvements"`
	TrainingRecommendations string `json:"trainingRecommendations"`
	Recommendation          string `json:"recommendation"`
}

type CommitteeReviewInput struct {
	Comments       string `json:"comments"`
	Recommendation string `json:"recommendation"`
}

type ApprovalInput struct {
	ApprovedBy string `json:"approvedBy"`
	Decision   string `json:"decision"`
	Comments   string `json:"comments"`
}

type RejectInput struct {
	RejectedBy string `json:"rejectedBy"`
	Reason     string `json:"reason"`
}

func (s *Service) StartSelfAssessment(ctx context.Context, appraisalID string) (Appraisal, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	next, err := NextStatus(current.Status, ActionStartSelfAssessment)
	if err != nil {
		return Appraisal{}, err
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, self_assessment_started_at = now()
    WHERE id = $2 AND status = $3
  `, next, appraisalID, current.Status); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, appraisalID)
}

func (s *Service) SubmitSelfAssessment(ctx context.Context, appraisalID string, input SelfAssessmentInput) (SubmitResult, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	next, err := NextStatus(current.Status, ActionSubmitSelfAssessment)
	if err != nil {
		return SubmitResult{}, err
	}

	items, err := s.scoreItems(ctx, current.ID, current.TemplateID, PerspectiveSelf)
	if err != nil {
		return SubmitResult{}, err
	}
	score := ComputeScore(items)

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, self_assessment_score = $2, achievements = $3, challenges = $4,
        employee_comments = $5, self_assessment_date = now()
    WHERE id = $6 AND status = $7
  `, next, float64(score.Percentage), input.Achievements, input.Challenges, input.Comments, appraisalID, current.Status); err != nil {
		return SubmitResult{}, err
	}

	updated, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Appraisal: updated, Score: score, IncompleteCriteria: UnratedCriteria(items)}, nil
}

func (s *Service) SubmitManagerReview(ctx context.Context, appraisalID string, input ManagerReviewInput) (SubmitResult, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	next, err := NextStatus(current.Status, ActionSubmitManagerReview)
	if err != nil {
		return SubmitResult{}, err
	}

	items, err := s.scoreItems(ctx, current.ID, current.TemplateID, PerspectiveManager)
	if err != nil {
		return SubmitResult{}, err
	}
	score := ComputeScore(items)
	level := MapToPerformanceLevel(score.Percentage)
	recommendation := input.Recommendation
	if recommendation == "" {
		recommendation = level.Recommendation
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, manager_score = $2, percentage_score = $3, performance_level = $4,
        recommendation = $5, strengths = $6, improvements = $7, training_recommendations = $8,
        manager_review_date = now()
    WHERE id = $9 AND status = $10
  `, next, float64(score.Percentage), score.Percentage, level.Level, recommendation,
		input.Strengths, input.Improvements, input.TrainingRecommendations, appraisalID, current.Status); err != nil {
		return SubmitResult{}, err
	}

	updated, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Appraisal: updated, Score: score, IncompleteCriteria: UnratedCriteria(items)}, nil
}

func (s *Service) SubmitCommitteeReview(ctx context.Context, appraisalID string, input CommitteeReviewInput) (SubmitResult, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	next, err := NextStatus(current.Status, ActionSubmitCommitteeReview)
	if err != nil {
		return SubmitResult{}, err
	}

	items, err := s.scoreItems(ctx, current.ID, current.TemplateID, PerspectiveCommittee)
	if err != nil {
		return SubmitResult{}, err
	}
	score := ComputeScore(items)
	level := MapToPerformanceLevel(score.Percentage)

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, committee_score = $2, final_score = $2, percentage_score = $3,
        performance_level = $4, committee_comments = $5, committee_recommendation = $6,
        committee_reviewed_at = now()
    WHERE id = $7 AND status = $8
  `, next, float64(score.Percentage), score.Percentage, level.Level,
		input.Comments, input.Recommendation, appraisalID, current.Status); err != nil {
		return SubmitResult{}, err
	}

	updated, err := s.Get(ctx, appraisalID)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Appraisal: updated, Score: score, IncompleteCriteria: UnratedCriteria(items)}, nil
}

func (s *Service) Approve(ctx context.Context, appraisalID string, input ApprovalInput) (Appraisal, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	next, err := NextStatus(current.Status, ActionApprove)
	if err != nil {
		return Appraisal{}, err
	}
	if input.Decision == "" {
		input.Decision = "approved"
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, approved_by = $2, approval_decision = $3, approval_comments = $4, approved_at = now()
    WHERE id = $5 AND status = $6
  `, next, input.ApprovedBy, input.Decision, input.Comments, appraisalID, current.Status); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, appraisalID)
}

func (s *Service) Communicate(ctx context.Context, appraisalID string) (Appraisal, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	next, err := NextStatus(current.Status, ActionCommunicate)
	if err != nil {
		return Appraisal{}, err
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, communicated_at = now()
    WHERE id = $2 AND status = $3
  `, next, appraisalID, current.Status); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, appraisalID)
}

func (s *Service) Acknowledge(ctx context.Context, appraisalID, feedback string) (Appraisal, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	next, err := NextStatus(current.Status, ActionAcknowledge)
	if err != nil {
		return Appraisal{}, err
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, employee_feedback = $2, employee_acknowledged_at = now()
    WHERE id = $3 AND status = $4
  `, next, feedback, appraisalID, current.Status); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, appraisalID)
}

// Reject is reachable from every review stage and is terminal.
func (s *Service) Reject(ctx context.Context, appraisalID string, input RejectInput) (Appraisal, error) {
	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	if !CanReject(current.Status) {
		return Appraisal{}, fmt.Errorf("%w: cannot reject an appraisal in status %s", ErrInvalidTransition, current.Status)
	}

	if err := s.transition(ctx, `
    UPDATE employee_appraisals
    SET status = $1, rejected_by = $2, rejection_reason = $3, rejected_at = now()
    WHERE id = $4 AND status = $5
  `, StatusRejected, input.RejectedBy, input.Reason, appraisalID, current.Status); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, appraisalID)
}

// transition runs a guarded status update. Zero rows affected after a
// successful read means another writer advanced the appraisal first.
func (s *Service) transition(ctx context.Context, query string, args ...any) error {
	tag, err := s.Store.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleTransition
	}
	return nil
}
