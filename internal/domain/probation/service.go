package probation

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

const recordColumns = `
    id, employee_id, start_date, original_end_date, current_end_date, period_months,
    extension_count, status, appraisal_id, outcome_reason, confirmed_at, terminated_at, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.StartDate, &rec.OriginalEndDate, &rec.CurrentEndDate,
		&rec.PeriodMonths, &rec.ExtensionCount, &rec.Status, &rec.AppraisalID, &rec.OutcomeReason,
		&rec.ConfirmedAt, &rec.TerminatedAt, &rec.CreatedAt)
	return rec, err
}

type CreateInput struct {
	EmployeeID   string    `json:"employeeId"`
	StartDate    time.Time `json:"startDate"`
	PeriodMonths int       `json:"periodMonths"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Record, error) {
	endDate := NextEndDate(input.StartDate, input.PeriodMonths)
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO probation_records (employee_id, start_date, original_end_date, current_end_date, period_months, status)
    VALUES ($1,$2,$3,$3,$4,$5)
    RETURNING id
  `, input.EmployeeID, input.StartDate, endDate, input.PeriodMonths, StatusActive).Scan(&id); err != nil {
		return Record{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, probationID string) (Record, error) {
	rec, err := scanRecord(s.Store.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM probation_records
    WHERE id = $1
  `, probationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: probation %s", ErrNotFound, probationID)
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, employeeID, status string) ([]Record, error) {
	query := `
    SELECT` + recordColumns + `
    FROM probation_records
    WHERE 1=1
  `
	var args []any
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
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

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Service) Delete(ctx context.Context, probationID string) error {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM probation_extensions WHERE probation_id = $1", probationID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM probation_kpis WHERE probation_id = $1", probationID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM probation_records WHERE id = $1", probationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: probation %s", ErrNotFound, probationID)
	}
	return tx.Commit(ctx)
}

type ExtendInput struct {
	Months     int    `json:"months"`
	Reason     string `json:"reason"`
	ApprovedBy string `json:"approvedBy"`
}

// Extend appends an extension row and moves the end date in one
// transaction, so the extension count and child rows never disagree.
// The record stays in status extended after each further extension.
func (s *Service) Extend(ctx context.Context, probationID string, input ExtendInput) (Record, error) {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM probation_records
    WHERE id = $1
    FOR UPDATE
  `, probationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: probation %s", ErrNotFound, probationID)
		}
		return Record{}, err
	}
	if !open(rec.Status) {
		return Record{}, fmt.Errorf("%w: cannot extend a %s probation", ErrInvalidTransition, rec.Status)
	}
	if !CanExtend(rec.ExtensionCount) {
		return Record{}, fmt.Errorf("%w: already extended %d times", ErrExtensionLimit, rec.ExtensionCount)
	}

	newEnd := NextEndDate(rec.CurrentEndDate, input.Months)
	if _, err := tx.Exec(ctx, `
    INSERT INTO probation_extensions (probation_id, ordinal, previous_end_date, new_end_date, months, reason, approved_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, probationID, rec.ExtensionCount+1, rec.CurrentEndDate, newEnd, input.Months, input.Reason, input.ApprovedBy); err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE probation_records
    SET current_end_date = $1, extension_count = extension_count + 1, status = $2
    WHERE id = $3
  `, newEnd, StatusExtended, probationID); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return s.Get(ctx, probationID)
}

// Confirm closes the probation successfully, optionally referencing the
// appraisal that justified it.
func (s *Service) Confirm(ctx context.Context, probationID, appraisalID string) (Record, error) {
	rec, err := s.Get(ctx, probationID)
	if err != nil {
		return Record{}, err
	}
	if !open(rec.Status) {
		return Record{}, fmt.Errorf("%w: cannot confirm a %s probation", ErrInvalidTransition, rec.Status)
	}

	var appraisalRef *string
	if appraisalID != "" {
		appraisalRef = &appraisalID
	}
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE probation_records
    SET status = $1, appraisal_id = $2, confirmed_at = now()
    WHERE id = $3 AND status = $4
  `, StatusConfirmed, appraisalRef, probationID, rec.Status)
	if err != nil {
		return Record{}, err
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrStaleTransition
	}
	return s.Get(ctx, probationID)
}

func (s *Service) Terminate(ctx context.Context, probationID, reason string) (Record, error) {
	rec, err := s.Get(ctx, probationID)
	if err != nil {
		return Record{}, err
	}
	if !open(rec.Status) {
		return Record{}, fmt.Errorf("%w: cannot terminate a %s probation", ErrInvalidTransition, rec.Status)
	}

	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE probation_records
    SET status = $1, outcome_reason = $2, terminated_at = now()
    WHERE id = $3 AND status = $4
  `, StatusTerminated, reason, probationID, rec.Status)
	if err != nil {
		return Record{}, err
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrStaleTransition
	}
	return s.Get(ctx, probationID)
}

func (s *Service) Extensions(ctx context.Context, probationID string) ([]Extension, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, probation_id, ordinal, previous_end_date, new_end_date, months, reason, approved_by, created_at
    FROM probation_extensions
    WHERE probation_id = $1
    ORDER BY ordinal
  `, probationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extensions []Extension
	for rows.Next() {
		var ext Extension
		if err := rows.Scan(&ext.ID, &ext.ProbationID, &ext.Ordinal, &ext.PreviousEndDate, &ext.NewEndDate,
			&ext.Months, &ext.Reason, &ext.ApprovedBy, &ext.CreatedAt); err != nil {
			return nil, err
		}
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

func (s *Service) CreateKPI(ctx context.Context, probationID string, payload KPI) (KPI, error) {
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO probation_kpis (probation_id, name, weight, target, actual, notes)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, probationID, payload.Name, payload.Weight, payload.Target, payload.Actual, payload.Notes).Scan(&id); err != nil {
		return KPI{}, err
	}
	return s.getKPI(ctx, id)
}

func (s *Service) getKPI(ctx context.Context, kpiID string) (KPI, error) {
	var kpi KPI
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, probation_id, name, weight, target, actual, COALESCE(notes, '')
    FROM probation_kpis
    WHERE id = $1
  `, kpiID).Scan(&kpi.ID, &kpi.ProbationID, &kpi.Name, &kpi.Weight, &kpi.Target, &kpi.Actual, &kpi.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return KPI{}, fmt.Errorf("%w: kpi %s", ErrNotFound, kpiID)
		}
		return KPI{}, err
	}
	return kpi, nil
}

func (s *Service) KPIs(ctx context.Context, probationID string) ([]KPI, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, probation_id, name, weight, target, actual, COALESCE(notes, '')
    FROM probation_kpis
    WHERE probation_id = $1
    ORDER BY created_at
  `, probationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []KPI
	for rows.Next() {
		var kpi KPI
		if err := rows.Scan(&kpi.ID, &kpi.ProbationID, &kpi.Name, &kpi.Weight, &kpi.Target, &kpi.Actual, &kpi.Notes); err != nil {
			return nil, err
		}
		kpis = append(kpis, kpi)
	}
	return kpis, nil
}

func (s *Service) UpdateKPI(ctx context.Context, kpiID string, payload KPI) (KPI, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE probation_kpis
    SET name = $1, weight = $2, target = $3, actual = $4, notes = $5
    WHERE id = $6
  `, payload.Name, payload.Weight, payload.Target, payload.Actual, payload.Notes, kpiID)
	if err != nil {
		return KPI{}, err
	}
	if tag.RowsAffected() == 0 {
		return KPI{}, fmt.Errorf("%w: kpi %s", ErrNotFound, kpiID)
	}
	return s.getKPI(ctx, kpiID)
}

func (s *Service) DeleteKPI(ctx context.Context, kpiID string) error {
	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM probation_kpis WHERE id = $1", kpiID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: kpi %s", ErrNotFound, kpiID)
	}
	return nil
}
