package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"appraise/internal/domain/auth"
	"appraise/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" {
		if err := ensureUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin); err != nil {
			return err
		}
	}
	if cfg.SeedHREmail != "" {
		if err := ensureUser(ctx, pool, cfg.SeedHREmail, cfg.SeedHRPassword, auth.RoleHR); err != nil {
			return err
		}
	}
	return ensureDefaultTemplate(ctx, pool)
}

// ensureDefaultTemplate gives a fresh install one usable annual
// template so the first appraisal does not require config work.
func ensureDefaultTemplate(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM appraisal_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var templateID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO appraisal_templates (name, type, is_active)
    VALUES ('Annual Review', 'annual', true)
    RETURNING id
  `).Scan(&templateID); err != nil {
		return err
	}

	var sectionID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO template_sections (template_id, name, description, weight, position)
    VALUES ($1, 'Core Competencies', '', 100, 1)
    RETURNING id
  `, templateID).Scan(&sectionID); err != nil {
		return err
	}

	criteria := []struct {
		name   string
		weight int
	}{
		{"Job Knowledge", 30},
		{"Quality of Work", 30},
		{"Teamwork", 20},
		{"Communication", 20},
	}
	for i, c := range criteria {
		if _, err := tx.Exec(ctx, `
      INSERT INTO section_criteria (section_id, name, description, weight, position)
      VALUES ($1,$2,'',$3,$4)
    `, sectionID, c.name, c.weight, i+1); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, role string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role)
    VALUES ($1,$2,$3)
  `, email, hash, role)
	return err
}
