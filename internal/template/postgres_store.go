package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectActiveTemplate = `
SELECT template_id, subject, body, variables, is_active, is_default, usage_count, updated_at
FROM email_templates
WHERE template_id = $1 AND is_active = TRUE
`

const incrementUsage = `
UPDATE email_templates SET usage_count = usage_count + 1 WHERE template_id = $1
`

// PostgresStore reads the admin-managed email_templates table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetActive(ctx context.Context, templateID string) (*Template, error) {
	var tpl Template
	err := s.pool.QueryRow(ctx, selectActiveTemplate, templateID).Scan(
		&tpl.TemplateID,
		&tpl.Subject,
		&tpl.Body,
		&tpl.Variables,
		&tpl.IsActive,
		&tpl.IsDefault,
		&tpl.UsageCount,
		&tpl.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", templateID, err)
	}
	return &tpl, nil
}

func (s *PostgresStore) IncrementUsage(ctx context.Context, templateID string) error {
	if _, err := s.pool.Exec(ctx, incrementUsage, templateID); err != nil {
		return fmt.Errorf("increment template usage %s: %w", templateID, err)
	}
	return nil
}
