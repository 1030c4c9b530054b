package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// TemplateRepository implements repositories.TemplateRepository.
type TemplateRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(config *RepositoryConfig) repositories.TemplateRepository {
	return &TemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a template.
func (r *TemplateRepository) Create(ctx context.Context, tpl *models.Template) error {
	content, err := marshalDoc(tpl.Content)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, content, category, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Templates)

	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		tpl.UserID,
		tpl.Name,
		content,
		tpl.Category,
		tpl.System,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template visible to the user (own or system).
func (r *TemplateRepository) GetByID(ctx context.Context, id, userID string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, content, category, is_system, created_at, updated_at
		FROM %s
		WHERE id = $1 AND (user_id = $2 OR is_system = true)
	`, r.tables.Templates)

	var tpl models.Template
	var content []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Name,
		&content,
		&tpl.Category,
		&tpl.System,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	if tpl.Content, err = scanDoc(content); err != nil {
		return nil, err
	}

	return &tpl, nil
}

// Delete removes a user template. System templates cannot be deleted.
func (r *TemplateRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2 AND is_system = false
	`, r.tables.Templates)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns system templates plus the user's own, system first.
func (r *TemplateRepository) List(ctx context.Context, userID string) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, content, category, is_system, created_at, updated_at
		FROM %s
		WHERE user_id = $1 OR is_system = true
		ORDER BY is_system DESC, name ASC
	`, r.tables.Templates)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var tpl models.Template
		var content []byte
		err := rows.Scan(
			&tpl.ID,
			&tpl.UserID,
			&tpl.Name,
			&content,
			&tpl.Category,
			&tpl.System,
			&tpl.CreatedAt,
			&tpl.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if tpl.Content, err = scanDoc(content); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}
