package pip

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const planColumns = `
    id, reference, employee_id, manager_id, reason, start_date, target_end_date,
    duration_weeks, status, outcome, activated_at, completed_at, created_at`

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.Reference, &p.EmployeeID, &p.ManagerID, &p.Reason, &p.StartDate,
		&p.TargetEndDate, &p.DurationWeeks, &p.Status, &p.Outcome, &p.ActivatedAt, &p.CompletedAt, &p.CreatedAt)
	return p, err
}

type CreateInput struct {
	EmployeeID    string    `json:"employeeId"`
	ManagerID     string    `json:"managerId"`
	Reason        string    `json:"reason"`
	StartDate     time.Time `json:"startDate"`
	DurationWeeks int       `json:"durationWeeks"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Plan, error) {
	targetEnd := input.StartDate.AddDate(0, 0, 7*input.DurationWeeks)

	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return Plan{}, err
	}
	defer tx.Rollback(ctx)

	reference, err := nextReference(ctx, tx, input.StartDate.Year())
	if err != nil {
		return Plan{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO improvement_plans (reference, employee_id, manager_id, reason, start_date, target_end_date, duration_weeks, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, reference, input.EmployeeID, input.ManagerID, input.Reason, input.StartDate, targetEnd, input.DurationWeeks, StatusDraft).Scan(&id); err != nil {
		return Plan{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Plan{}, err
	}
	return s.Get(ctx, id)
}

// nextReference allocates PIP-<year>-<seq> from the shared per-year
// counter table instead of counting existing rows.
func nextReference(ctx context.Context, tx pgx.Tx, year int) (string, error) {
	var value int
	if err := tx.QueryRow(ctx, `
    INSERT INTO reference_sequences (prefix, year, value)
    VALUES ('PIP',$1,1)
    ON CONFLICT (prefix, year) DO UPDATE SET value = reference_sequences.value + 1
    RETURNING value
  `, year).Scan(&value); err != nil {
		return "", err
	}
	return fmt.Sprintf("PIP-%d-%04d", year, value), nil
}

func (s *Service) Get(ctx context.Context, planID string) (Plan, error) {
	p, err := scanPlan(s.Store.DB.QueryRow(ctx, `
    SELECT`+planColumns+`
    FROM improvement_plans
    WHERE id = $1
  `, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, fmt.Errorf("%w: plan %s", ErrNotFound, planID)
		}
		return Plan{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, employeeID, managerID, status string) ([]Plan, error) {
	query := `
    SELECT` + planColumns + `
    FROM improvement_plans
    WHERE 1=1
  `
	var args []any
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if managerID != "" {
		args = append(args, managerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.Store.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (s *Service) Delete(ctx context.Context, planID string) error {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM improvement_plan_goals WHERE plan_id = $1", planID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM improvement_plan_checkins WHERE plan_id = $1", planID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM improvement_plans WHERE id = $1", planID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: plan %s", ErrNotFound, planID)
	}
	return tx.Commit(ctx)
}

// Activate moves draft to active with no side effects beyond the
// timestamp; goals and check-ins may be attached from draft onward.
func (s *Service) Activate(ctx context.Context, planID string) (Plan, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if !CanActivate(plan.Status) {
		return Plan{}, fmt.Errorf("%w: cannot activate a %s plan", ErrInvalidTransition, plan.Status)
	}
	return s.transition(ctx, planID, `
    UPDATE improvement_plans
    SET status = $1, activated_at = now()
    WHERE id = $2 AND status = $3
  `, StatusActive, planID, plan.Status)
}

func (s *Service) StartReview(ctx context.Context, planID string) (Plan, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if !CanStartReview(plan.Status) {
		return Plan{}, fmt.Errorf("%w: cannot start review on a %s plan", ErrInvalidTransition, plan.Status)
	}
	return s.transition(ctx, planID, `
    UPDATE improvement_plans
    SET status = $1
    WHERE id = $2 AND status = $3
  `, StatusReview, planID, plan.Status)
}

// Extend pushes the target end date by whole weeks. No cap applies.
func (s *Service) Extend(ctx context.Context, planID string, weeks int) (Plan, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if !CanExtend(plan.Status) {
		return Plan{}, fmt.Errorf("%w: cannot extend a %s plan", ErrInvalidTransition, plan.Status)
	}
	newEnd := plan.TargetEndDate.AddDate(0, 0, 7*weeks)
	return s.transition(ctx, planID, `
    UPDATE improvement_plans
    SET status = $1, target_end_date = $2, duration_weeks = duration_weeks + $3
    WHERE id = $4 AND status = $5
  `, StatusExtended, newEnd, weeks, planID, plan.Status)
}

// Complete records the terminal disposition. Goal progress never gates
// it; the caller decides when enough goals are resolved.
func (s *Service) Complete(ctx context.Context, planID, outcome string) (Plan, error) {
	if outcome != OutcomeSuccess && outcome != OutcomeFailure {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if !CanComplete(plan.Status) {
		return Plan{}, fmt.Errorf("%w: cannot complete a %s plan", ErrInvalidTransition, plan.Status)
	}
	return s.transition(ctx, planID, `
    UPDATE improvement_plans
    SET status = $1, outcome = $1, completed_at = now()
    WHERE id = $2 AND status = $3
  `, outcome, planID, plan.Status)
}

func (s *Service) transition(ctx context.Context, planID, query string, args ...any) (Plan, error) {
	tag, err := s.Store.DB.Exec(ctx, query, args...)
	if err != nil {
		return Plan{}, err
	}
	if tag.RowsAffected() == 0 {
		return Plan{}, ErrStaleTransition
	}
	return s.Get(ctx, planID)
}

type CheckInInput struct {
	Date        time.Time `json:"date"`
	Rating      int       `json:"rating"`
	Notes       string    `json:"notes"`
	ActionItems string    `json:"actionItems"`
}

// RecordCheckIn appends the next check-in under the plan's row lock so
// the per-plan sequence number never collides, even with concurrent
// writers.
func (s *Service) RecordCheckIn(ctx context.Context, planID string, input CheckInInput) (CheckIn, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return CheckIn{}, fmt.Errorf("%w: got %d", ErrInvalidRating, input.Rating)
	}

	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return CheckIn{}, err
	}
	defer tx.Rollback(ctx)

	var status string
	if err := tx.QueryRow(ctx, "SELECT status FROM improvement_plans WHERE id = $1 FOR UPDATE", planID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CheckIn{}, fmt.Errorf("%w: plan %s", ErrNotFound, planID)
		}
		return CheckIn{}, err
	}
	if Terminal(status) {
		return CheckIn{}, fmt.Errorf("%w: cannot record a check-in on a %s plan", ErrInvalidTransition, status)
	}

	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM improvement_plan_checkins WHERE plan_id = $1", planID).Scan(&count); err != nil {
		return CheckIn{}, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO improvement_plan_checkins (plan_id, checkin_number, checkin_date, rating, notes, action_items)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, planID, count+1, date, input.Rating, input.Notes, input.ActionItems).Scan(&id); err != nil {
		return CheckIn{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return CheckIn{}, err
	}
	return s.getCheckIn(ctx, id)
}

func (s *Service) getCheckIn(ctx context.Context, checkInID string) (CheckIn, error) {
	var c CheckIn
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, plan_id, checkin_number, checkin_date, rating, COALESCE(notes, ''), COALESCE(action_items, ''), created_at
    FROM improvement_plan_checkins
    WHERE id = $1
  `, checkInID).Scan(&c.ID, &c.PlanID, &c.CheckInNumber, &c.Date, &c.Rating, &c.Notes, &c.ActionItems, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CheckIn{}, fmt.Errorf("%w: check-in %s", ErrNotFound, checkInID)
		}
		return CheckIn{}, err
	}
	return c, nil
}

// CheckIns returns check-ins ordered by sequence number, not by
// insertion order.
func (s *Service) CheckIns(ctx context.Context, planID string) ([]CheckIn, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, plan_id, checkin_number, checkin_date, rating, COALESCE(notes, ''), COALESCE(action_items, ''), created_at
    FROM improvement_plan_checkins
    WHERE plan_id = $1
    ORDER BY checkin_number
  `, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkIns []CheckIn
	for rows.Next() {
		var c CheckIn
		if err := rows.Scan(&c.ID, &c.PlanID, &c.CheckInNumber, &c.Date, &c.Rating, &c.Notes, &c.ActionItems, &c.CreatedAt); err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, nil
}

func (s *Service) CreateGoal(ctx context.Context, planID string, payload Goal) (Goal, error) {
	if payload.Status == "" {
		payload.Status = GoalStatusPending
	}
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO improvement_plan_goals (plan_id, title, description, due_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, planID, payload.Title, payload.Description, payload.DueDate, payload.Status).Scan(&id); err != nil {
		return Goal{}, err
	}
	return s.getGoal(ctx, id)
}

func (s *Service) getGoal(ctx context.Context, goalID string) (Goal, error) {
	var g Goal
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, plan_id, title, description, due_date, status
    FROM improvement_plan_goals
    WHERE id = $1
  `, goalID).Scan(&g.ID, &g.PlanID, &g.Title, &g.Description, &g.DueDate, &g.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Goal{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
		}
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) Goals(ctx context.Context, planID string) ([]Goal, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, plan_id, title, description, due_date, status
    FROM improvement_plan_goals
    WHERE plan_id = $1
    ORDER BY created_at
  `, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.PlanID, &g.Title, &g.Description, &g.DueDate, &g.Status); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *Service) UpdateGoal(ctx context.Context, goalID string, payload Goal) (Goal, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE improvement_plan_goals
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
	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM improvement_plan_goals WHERE id = $1", goalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	return nil
}
