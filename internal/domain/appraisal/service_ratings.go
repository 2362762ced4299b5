package appraisal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UpsertRating writes one perspective's score and comment for a
// criterion. The row is keyed on (appraisal, criterion): the first
// write creates it, later writes update it in place. Ratings are only
// editable while the appraisal sits in the perspective's own stage.
func (s *Service) UpsertRating(ctx context.Context, appraisalID, criterionID string, perspective Perspective, value int, comment string) (Rating, error) {
	if value < 0 || value > RatingScaleMax {
		return Rating{}, fmt.Errorf("%w: got %d", ErrInvalidRating, value)
	}

	current, err := s.Get(ctx, appraisalID)
	if err != nil {
		return Rating{}, err
	}
	if current.Status != perspective.ReviewingStatus() {
		return Rating{}, fmt.Errorf("%w: %s ratings require status %s, appraisal is %s",
			ErrStageLocked, perspective, perspective.ReviewingStatus(), current.Status)
	}

	var belongs int
	if err := s.Store.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM section_criteria c
    JOIN template_sections sec ON c.section_id = sec.id
    WHERE c.id = $1 AND sec.template_id = $2
  `, criterionID, current.TemplateID).Scan(&belongs); err != nil {
		return Rating{}, err
	}
	if belongs == 0 {
		return Rating{}, fmt.Errorf("%w: criterion %s not on template %s", ErrNotFound, criterionID, current.TemplateID)
	}

	scoreCol := perspective.scoreColumn()
	commentCol := perspective.commentColumn()
	query := fmt.Sprintf(`
    INSERT INTO appraisal_ratings (appraisal_id, criterion_id, %s, %s)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (appraisal_id, criterion_id)
    DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, updated_at = now()
    RETURNING id
  `, scoreCol, commentCol, scoreCol, scoreCol, commentCol, commentCol)

	var id string
	if err := s.Store.DB.QueryRow(ctx, query, appraisalID, criterionID, value, comment).Scan(&id); err != nil {
		return Rating{}, err
	}
	return s.getRating(ctx, id)
}

func (s *Service) getRating(ctx context.Context, ratingID string) (Rating, error) {
	var r Rating
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, appraisal_id, criterion_id, self_score, manager_score, committee_score,
           COALESCE(self_comment, ''), COALESCE(manager_comment, ''), COALESCE(committee_comment, ''), updated_at
    FROM appraisal_ratings
    WHERE id = $1
  `, ratingID).Scan(&r.ID, &r.AppraisalID, &r.CriterionID, &r.SelfScore, &r.ManagerScore, &r.CommitteeScore,
		&r.SelfComment, &r.ManagerComment, &r.CommitteeComment, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rating{}, fmt.Errorf("%w: rating %s", ErrNotFound, ratingID)
		}
		return Rating{}, err
	}
	return r, nil
}

func (s *Service) Ratings(ctx context.Context, appraisalID string) ([]Rating, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT r.id, r.appraisal_id, r.criterion_id, r.self_score, r.manager_score, r.committee_score,
           COALESCE(r.self_comment, ''), COALESCE(r.manager_comment, ''), COALESCE(r.committee_comment, ''), r.updated_at
    FROM appraisal_ratings r
    JOIN section_criteria c ON r.criterion_id = c.id
    JOIN template_sections sec ON c.section_id = sec.id
    WHERE r.appraisal_id = $1
    ORDER BY sec.position, c.position
  `, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.AppraisalID, &r.CriterionID, &r.SelfScore, &r.ManagerScore, &r.CommitteeScore,
			&r.SelfComment, &r.ManagerComment, &r.CommitteeComment, &r.UpdatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

func (s *Service) CreateGoal(ctx context.Context, appraisalID string, payload Goal) (Goal, error) {
	if payload.Status == "" {
		payload.Status = GoalStatusPending
	}
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO appraisal_goals (appraisal_id, title, description, due_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, appraisalID, payload.Title, payload.Description, payload.DueDate, payload.Status).Scan(&id); err != nil {
		return Goal{}, err
	}
	return s.getGoal(ctx, id)
}

func (s *Service) getGoal(ctx context.Context, goalID string) (Goal, error) {
	var g Goal
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, appraisal_id, title, description, due_date, status
    FROM appraisal_goals
    WHERE id = $1
  `, goalID).Scan(&g.ID, &g.AppraisalID, &g.Title, &g.Description, &g.DueDate, &g.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Goal{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
		}
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) Goals(ctx context.Context, appraisalID string) ([]Goal, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, appraisal_id, title, description, due_date, status
    FROM appraisal_goals
    WHERE appraisal_id = $1
    ORDER BY created_at
  `, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.AppraisalID, &g.Title, &g.Description, &g.DueDate, &g.Status); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *Service) UpdateGoal(ctx context.Context, goalID string, payload Goal) (Goal, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE appraisal_goals
    SET title = $1, description = $2, due_date = $3, status = $4
    WHERE id = $5
  `, payload.Title, payload.Description, payload.DueDate, payload.Status, goalID)
	if err != nil {
		return Goal{}, err
	}
	if tag.RowsAffected() == 0 {
		return Goal{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	return s.getGoal(ctx, goalID)
}

func (s *Service) DeleteGoal(ctx context.Context, goalID string) error {
	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM appraisal_goals WHERE id = $1", goalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	return nil
}

func (s *Service) CreateTrainingNeed(ctx context.Context, appraisalID string, payload TrainingNeed) (TrainingNeed, error) {
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO appraisal_training_needs (appraisal_id, title, priority, notes)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, appraisalID, payload.Title, payload.Priority, payload.Notes).Scan(&id); err != nil {
		return TrainingNeed{}, err
	}

	var need TrainingNeed
	if err := s.Store.DB.QueryRow(ctx, `
    SELECT id, appraisal_id, title, priority, notes
    FROM appraisal_training_needs
    WHERE id = $1
  `, id).Scan(&need.ID, &need.AppraisalID, &need.Title, &need.Priority, &need.Notes); err != nil {
		return TrainingNeed{}, err
	}
	return need, nil
}

func (s *Service) TrainingNeeds(ctx context.Context, appraisalID string) ([]TrainingNeed, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, appraisal_id, title, priority, notes
    FROM appraisal_training_needs
    WHERE appraisal_id = $1
    ORDER BY created_at
  `, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var needs []TrainingNeed
	for rows.Next() {
		var need TrainingNeed
		if err := rows.Scan(&need.ID, &need.AppraisalID, &need.Title, &need.Priority, &need.Notes); err != nil {
			return nil, err
		}
		needs = append(needs, need)
	}
	return needs, nil
}

func (s *Service) DeleteTrainingNeed(ctx context.Context, needID string) error {
	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM appraisal_training_needs WHERE id = $1", needID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: training need %s", ErrNotFound, needID)
	}
	return nil
}
