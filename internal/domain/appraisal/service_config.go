package appraisal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, name, fiscal_year, cycle_type, self_assessment_due, manager_review_due,
           committee_review_due, final_approval_due, status, created_at
    FROM appraisal_cycles
    ORDER BY fiscal_year DESC, created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var c Cycle
		if err := rows.Scan(&c.ID, &c.Name, &c.FiscalYear, &c.CycleType, &c.SelfAssessmentDue, &c.ManagerReviewDue, &c.CommitteeReviewDue, &c.FinalApprovalDue, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	var c Cycle
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, name, fiscal_year, cycle_type, self_assessment_due, manager_review_due,
           committee_review_due, final_approval_due, status, created_at
    FROM appraisal_cycles
    WHERE id = $1
  `, cycleID).Scan(&c.ID, &c.Name, &c.FiscalYear, &c.CycleType, &c.SelfAssessmentDue, &c.ManagerReviewDue, &c.CommitteeReviewDue, &c.FinalApprovalDue, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cycle{}, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
		}
		return Cycle{}, err
	}
	return c, nil
}

func (s *Service) CreateCycle(ctx context.Context, payload Cycle) (Cycle, error) {
	if payload.Status == "" {
		payload.Status = CycleStatusDraft
	}
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO appraisal_cycles (name, fiscal_year, cycle_type, self_assessment_due,
      manager_review_due, committee_review_due, final_approval_due, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, payload.Name, payload.FiscalYear, payload.CycleType, payload.SelfAssessmentDue,
		payload.ManagerReviewDue, payload.CommitteeReviewDue, payload.FinalApprovalDue, payload.Status).Scan(&id); err != nil {
		return Cycle{}, err
	}
	return s.GetCycle(ctx, id)
}

// UpdateCycle applies direct edits; the cycle status is a label, not a
// guarded state machine.
func (s *Service) UpdateCycle(ctx context.Context, cycleID string, payload Cycle) (Cycle, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE appraisal_cycles
    SET name = $1, fiscal_year = $2, cycle_type = $3, self_assessment_due = $4,
        manager_review_due = $5, committee_review_due = $6, final_approval_due = $7, status = $8
    WHERE id = $9
  `, payload.Name, payload.FiscalYear, payload.CycleType, payload.SelfAssessmentDue,
		payload.ManagerReviewDue, payload.CommitteeReviewDue, payload.FinalApprovalDue, payload.Status, cycleID)
	if err != nil {
		return Cycle{}, err
	}
	if tag.RowsAffected() == 0 {
		return Cycle{}, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
	}
	return s.GetCycle(ctx, cycleID)
}

func (s *Service) DeleteCycle(ctx context.Context, cycleID string) error {
	var count int
	if err := s.Store.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee_appraisals WHERE cycle_id = $1", cycleID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d appraisals reference cycle %s", ErrCycleInUse, count, cycleID)
	}

	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM appraisal_cycles WHERE id = $1", cycleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
	}
	return nil
}

func (s *Service) ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error) {
	query := `
    SELECT id, name, type, is_active, created_at
    FROM appraisal_templates
  `
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.Store.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// GetTemplate loads the template with its ordered sections and criteria.
func (s *Service) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	var t Template
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, name, type, is_active, created_at
    FROM appraisal_templates
    WHERE id = $1
  `, templateID).Scan(&t.ID, &t.Name, &t.Type, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
		}
		return Template{}, err
	}

	sections, err := s.templateSections(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	t.Sections = sections
	return t, nil
}

func (s *Service) templateSections(ctx context.Context, templateID string) ([]Section, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, template_id, name, description, weight, position
    FROM template_sections
    WHERE template_id = $1
    ORDER BY position
  `, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.TemplateID, &sec.Name, &sec.Description, &sec.Weight, &sec.Position); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}

	for i := range sections {
		criteria, err := s.sectionCriteria(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		sections[i].Criteria = criteria
	}
	return sections, nil
}

func (s *Service) sectionCriteria(ctx context.Context, sectionID string) ([]Criterion, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, section_id, name, description, weight, position
    FROM section_criteria
    WHERE section_id = $1
    ORDER BY position
  `, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var criteria []Criterion
	for rows.Next() {
		var c Criterion
		if err := rows.Scan(&c.ID, &c.SectionID, &c.Name, &c.Description, &c.Weight, &c.Position); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

func (s *Service) CreateTemplate(ctx context.Context, name, templateType string, isActive bool) (Template, error) {
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO appraisal_templates (name, type, is_active)
    VALUES ($1,$2,$3)
    RETURNING id
  `, name, templateType, isActive).Scan(&id); err != nil {
		return Template{}, err
	}
	return s.GetTemplate(ctx, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, templateID, name, templateType string, isActive bool) (Template, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE appraisal_templates
    SET name = $1, type = $2, is_active = $3
    WHERE id = $4
  `, name, templateType, isActive, templateID)
	if err != nil {
		return Template{}, err
	}
	if tag.RowsAffected() == 0 {
		return Template{}, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}
	return s.GetTemplate(ctx, templateID)
}

// DeleteTemplate cascades criteria, then sections, then the template
// inside one transaction.
func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	var count int
	if err := s.Store.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee_appraisals WHERE template_id = $1", templateID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d appraisals reference template %s", ErrTemplateInUse, count, templateID)
	}

	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    DELETE FROM section_criteria
    WHERE section_id IN (SELECT id FROM template_sections WHERE template_id = $1)
  `, templateID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM template_sections WHERE template_id = $1", templateID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM appraisal_templates WHERE id = $1", templateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}
	return tx.Commit(ctx)
}

// DuplicateTemplate deep-copies a template with its sections and
// criteria. Active templates are cloned rather than edited once
// appraisals reference them.
func (s *Service) DuplicateTemplate(ctx context.Context, templateID, newName string) (Template, error) {
	source, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	if newName == "" {
		newName = source.Name + " (copy)"
	}

	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return Template{}, err
	}
	defer tx.Rollback(ctx)

	var copyID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO appraisal_templates (name, type, is_active)
    VALUES ($1,$2,false)
    RETURNING id
  `, newName, source.Type).Scan(&copyID); err != nil {
		return Template{}, err
	}

	for _, section := range source.Sections {
		var sectionID string
		if err := tx.QueryRow(ctx, `
      INSERT INTO template_sections (template_id, name, description, weight, position)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id
    `, copyID, section.Name, section.Description, section.Weight, section.Position).Scan(&sectionID); err != nil {
			return Template{}, err
		}
		for _, criterion := range section.Criteria {
			if _, err := tx.Exec(ctx, `
        INSERT INTO section_criteria (section_id, name, description, weight, position)
        VALUES ($1,$2,$3,$4,$5)
      `, sectionID, criterion.Name, criterion.Description, criterion.Weight, criterion.Position); err != nil {
				return Template{}, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Template{}, err
	}
	return s.GetTemplate(ctx, copyID)
}

type SectionWeight struct {
	SectionID   string `json:"sectionId"`
	Name        string `json:"name"`
	TotalWeight int    `json:"totalWeight"`
}

type WeightSummary struct {
	TemplateID  string          `json:"templateId"`
	TotalWeight int             `json:"totalWeight"`
	Balanced    bool            `json:"balanced"`
	Sections    []SectionWeight `json:"sections"`
}

// TemplateWeights surfaces whether criterion weights sum to 100. The
// check is advisory; authors may save unbalanced templates.
func (s *Service) TemplateWeights(ctx context.Context, templateID string) (WeightSummary, error) {
	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return WeightSummary{}, err
	}

	summary := WeightSummary{TemplateID: templateID}
	for _, section := range template.Sections {
		sectionWeight := SectionWeight{SectionID: section.ID, Name: section.Name}
		for _, criterion := range section.Criteria {
			sectionWeight.TotalWeight += criterion.Weight
		}
		summary.TotalWeight += sectionWeight.TotalWeight
		summary.Sections = append(summary.Sections, sectionWeight)
	}
	summary.Balanced = summary.TotalWeight == 100
	return summary, nil
}

func (s *Service) CreateSection(ctx context.Context, templateID string, payload Section) (Section, error) {
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO template_sections (template_id, name, description, weight, position)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, templateID, payload.Name, payload.Description, payload.Weight, payload.Position).Scan(&id); err != nil {
		return Section{}, err
	}
	return s.getSection(ctx, id)
}

func (s *Service) getSection(ctx context.Context, sectionID string) (Section, error) {
	var sec Section
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, template_id, name, description, weight, position
    FROM template_sections
    WHERE id = $1
  `, sectionID).Scan(&sec.ID, &sec.TemplateID, &sec.Name, &sec.Description, &sec.Weight, &sec.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Section{}, fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
		}
		return Section{}, err
	}
	return sec, nil
}

func (s *Service) UpdateSection(ctx context.Context, sectionID string, payload Section) (Section, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE template_sections
    SET name = $1, description = $2, weight = $3, position = $4
    WHERE id = $5
  `, payload.Name, payload.Description, payload.Weight, payload.Position, sectionID)
	if err != nil {
		return Section{}, err
	}
	if tag.RowsAffected() == 0 {
		return Section{}, fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
	}
	return s.getSection(ctx, sectionID)
}

func (s *Service) DeleteSection(ctx context.Context, sectionID string) error {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM section_criteria WHERE section_id = $1", sectionID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM template_sections WHERE id = $1", sectionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
	}
	return tx.Commit(ctx)
}

func (s *Service) CreateCriterion(ctx context.Context, sectionID string, payload Criterion) (Criterion, error) {
	var id string
	if err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO section_criteria (section_id, name, description, weight, position)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, sectionID, payload.Name, payload.Description, payload.Weight, payload.Position).Scan(&id); err != nil {
		return Criterion{}, err
	}
	return s.getCriterion(ctx, id)
}

func (s *Service) getCriterion(ctx context.Context, criterionID string) (Criterion, error) {
	var c Criterion
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, section_id, name, description, weight, position
    FROM section_criteria
    WHERE id = $1
  `, criterionID).Scan(&c.ID, &c.SectionID, &c.Name, &c.Description, &c.Weight, &c.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Criterion{}, fmt.Errorf("%w: criterion %s", ErrNotFound, criterionID)
		}
		return Criterion{}, err
	}
	return c, nil
}

func (s *Service) UpdateCriterion(ctx context.Context, criterionID string, payload Criterion) (Criterion, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE section_criteria
    SET name = $1, description = $2, weight = $3, position = $4
    WHERE id = $5
  `, payload.Name, payload.Description, payload.Weight, payload.Position, criterionID)
	if err != nil {
		return Criterion{}, err
	}
	if tag.RowsAffected() == 0 {
		return Criterion{}, fmt.Errorf("%w: criterion %s", ErrNotFound, criterionID)
	}
	return s.getCriterion(ctx, criterionID)
}

func (s *Service) DeleteCriterion(ctx context.Context, criterionID string) error {
	tag, err := s.Store.DB.Exec(ctx, "DELETE FROM section_criteria WHERE id = $1", criterionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: criterion %s", ErrNotFound, criterionID)
	}
	return nil
}
