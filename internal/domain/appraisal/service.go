package appraisal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

const appraisalColumns = `
    id, reference, employee_id, cycle_id, template_id, type, status,
    self_assessment_score, manager_score, committee_score, final_score, percentage_score,
    performance_level, recommendation,
    achievements, challenges, employee_comments,
    strengths, improvements, training_recommendations,
    committee_comments, committee_recommendation,
    approved_by, approval_decision, approval_comments,
    employee_feedback, rejected_by, rejection_reason,
    self_assessment_started_at, self_assessment_date, manager_review_date,
    committee_reviewed_at, approved_at, communicated_at, employee_acknowledged_at,
    rejected_at, created_at`

func scanAppraisal(row pgx.Row) (Appraisal, error) {
	var a Appraisal
	err := row.Scan(
		&a.ID, &a.Reference, &a.EmployeeID, &a.CycleID, &a.TemplateID, &a.Type, &a.Status,
		&a.SelfAssessmentScore, &a.ManagerScore, &a.CommitteeScore, &a.FinalScore, &a.PercentageScore,
		&a.PerformanceLevel, &a.Recommendation,
		&a.Achievements, &a.Challenges, &a.EmployeeComments,
		&a.Strengths, &a.Improvements, &a.TrainingRecommendations,
		&a.CommitteeComments, &a.CommitteeRecommendation,
		&a.ApprovedBy, &a.ApprovalDecision, &a.ApprovalComments,
		&a.EmployeeFeedback, &a.RejectedBy, &a.RejectionReason,
		&a.SelfAssessmentStartedAt, &a.SelfAssessmentDate, &a.ManagerReviewDate,
		&a.CommitteeReviewedAt, &a.ApprovedAt, &a.CommunicatedAt, &a.EmployeeAcknowledgedAt,
		&a.RejectedAt, &a.CreatedAt,
	)
	return a, err
}

type CreateInput struct {
	EmployeeID string `json:"employeeId"`
	CycleID    string `json:"cycleId"`
	TemplateID string `json:"templateId"`
	Type       string `json:"type"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Appraisal, error) {
	var fiscalYear int
	if err := s.Store.DB.QueryRow(ctx, "SELECT fiscal_year FROM appraisal_cycles WHERE id = $1", input.CycleID).Scan(&fiscalYear); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appraisal{}, fmt.Errorf("%w: cycle %s", ErrNotFound, input.CycleID)
		}
		return Appraisal{}, err
	}

	var templateType string
	if err := s.Store.DB.QueryRow(ctx, "SELECT type FROM appraisal_templates WHERE id = $1", input.TemplateID).Scan(&templateType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appraisal{}, fmt.Errorf("%w: template %s", ErrNotFound, input.TemplateID)
		}
		return Appraisal{}, err
	}
	if input.Type == "" {
		input.Type = templateType
	}

	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return Appraisal{}, err
	}
	defer tx.Rollback(ctx)

	reference, err := nextReference(ctx, tx, "APR", fiscalYear)
	if err != nil {
		return Appraisal{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO employee_appraisals (reference, employee_id, cycle_id, template_id, type, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, reference, input.EmployeeID, input.CycleID, input.TemplateID, input.Type, StatusDraft).Scan(&id); err != nil {
		return Appraisal{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Appraisal{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, appraisalID string) (Appraisal, error) {
	a, err := scanAppraisal(s.Store.DB.QueryRow(ctx, `
    SELECT`+appraisalColumns+`
    FROM employee_appraisals
    WHERE id = $1
  `, appraisalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appraisal{}, fmt.Errorf("%w: appraisal %s", ErrNotFound, appraisalID)
		}
		return Appraisal{}, err
	}
	return a, nil
}

type ListFilter struct {
	EmployeeID string
	CycleID    string
	Status     string
	Limit      int
	Offset     int
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appraisal, error) {
	query := `
    SELECT` + appraisalColumns + `
    FROM employee_appraisals
    WHERE 1=1
  `
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.CycleID != "" {
		args = append(args, filter.CycleID)
		query += fmt.Sprintf(" AND cycle_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.Store.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appraisals []Appraisal
	for rows.Next() {
		a, err := scanAppraisal(rows)
		if err != nil {
			return nil, err
		}
		appraisals = append(appraisals, a)
	}
	return appraisals, nil
}

// Delete removes an appraisal and its ratings, goals and training needs
// in one transaction. The store does not cascade; the service owns it.
func (s *Service) Delete(ctx context.Context, appraisalID string) error {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"appraisal_ratings", "appraisal_goals", "appraisal_training_needs"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE appraisal_id = $1", appraisalID); err != nil {
			return err
		}
	}
	tag, err := tx.Exec(ctx, "DELETE FROM employee_appraisals WHERE id = $1", appraisalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: appraisal %s", ErrNotFound, appraisalID)
	}
	return tx.Commit(ctx)
}

// nextReference allocates the next yearly sequence number for a prefix
// under the row's own lock, so concurrent writers never collide the way
// a count-and-format query would.
func nextReference(ctx context.Context, tx pgx.Tx, prefix string, year int) (string, error) {
	var value int
	if err := tx.QueryRow(ctx, `
    INSERT INTO reference_sequences (prefix, year, value)
    VALUES ($1,$2,1)
    ON CONFLICT (prefix, year) DO UPDATE SET value = reference_sequences.value + 1
    RETURNING value
  `, prefix, year).Scan(&value); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, value), nil
}

func (s *Service) scoreItems(ctx context.Context, appraisalID, templateID string, perspective Perspective) ([]CriterionScore, error) {
	query := fmt.Sprintf(`
    SELECT c.id, c.name, c.weight, r.%s
    FROM section_criteria c
    JOIN template_sections sec ON c.section_id = sec.id
    LEFT JOIN appraisal_ratings r ON r.criterion_id = c.id AND r.appraisal_id = $1
    WHERE sec.template_id = $2
    ORDER BY sec.position, c.position
  `, perspective.scoreColumn())

	rows, err := s.Store.DB.Query(ctx, query, appraisalID, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CriterionScore
	for rows.Next() {
		var item CriterionScore
		if err := rows.Scan(&item.CriterionID, &item.Name, &item.Weight, &item.Value); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ScoreAppraisal computes the weighted score for one perspective without
// mutating the appraisal.
func (s *Service) ScoreAppraisal(ctx context.Context, appraisalID string, perspective Perspective) (ScoreResult, []string, error) {
	a, err := s.Get(ctx, appraisalID)
	if err != nil {
		return ScoreResult{}, nil, err
	}
	items, err := s.scoreItems(ctx, a.ID, a.TemplateID, perspective)
	if err != nil {
		return ScoreResult{}, nil, err
	}
	return ComputeScore(items), UnratedCriteria(items), nil
}
