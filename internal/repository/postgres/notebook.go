package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// NotebookRepository implements repositories.NotebookRepository.
type NotebookRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNotebookRepository creates a new notebook repository.
func NewNotebookRepository(config *RepositoryConfig) repositories.NotebookRepository {
	return &NotebookRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new notebook.
func (r *NotebookRepository) Create(ctx context.Context, nb *models.Notebook) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_id, name, icon, color, sort_order, depth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Notebooks)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		nb.UserID,
		nb.ParentID,
		nb.Name,
		nb.Icon,
		nb.Color,
		nb.SortOrder,
		nb.Depth,
	).Scan(&nb.ID, &nb.CreatedAt, &nb.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("notebook '%s' already exists: %w", nb.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent notebook %v: %w", nb.ParentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create notebook: %w", err)
	}

	return nil
}

// GetByID retrieves a notebook by ID.
func (r *NotebookRepository) GetByID(ctx context.Context, id, userID string) (*models.Notebook, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, parent_id, name, icon, color, sort_order, depth, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notebooks)

	var nb models.Notebook
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&nb.ID,
		&nb.UserID,
		&nb.ParentID,
		&nb.Name,
		&nb.Icon,
		&nb.Color,
		&nb.SortOrder,
		&nb.Depth,
		&nb.CreatedAt,
		&nb.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("notebook %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get notebook: %w", err)
	}

	return &nb, nil
}

// Update updates an existing notebook.
func (r *NotebookRepository) Update(ctx context.Context, nb *models.Notebook) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, icon = $3, color = $4, sort_order = $5, depth = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
	`, r.tables.Notebooks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		nb.ParentID,
		nb.Name,
		nb.Icon,
		nb.Color,
		nb.SortOrder,
		nb.Depth,
		nb.ID,
		nb.UserID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("notebook '%s' already exists: %w", nb.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update notebook: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notebook %s: %w", nb.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a notebook. Notes inside it become unfiled through the
// schema's ON DELETE SET NULL.
func (r *NotebookRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notebooks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notebook %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns all of a user's notebooks ordered for tree rendering.
func (r *NotebookRepository) List(ctx context.Context, userID string) ([]models.Notebook, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, parent_id, name, icon, color, sort_order, depth, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY depth ASC, sort_order ASC, name ASC
	`, r.tables.Notebooks)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var nb models.Notebook
		err := rows.Scan(
			&nb.ID,
			&nb.UserID,
			&nb.ParentID,
			&nb.Name,
			&nb.Icon,
			&nb.Color,
			&nb.SortOrder,
			&nb.Depth,
			&nb.CreatedAt,
			&nb.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		notebooks = append(notebooks, nb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notebooks: %w", err)
	}

	return notebooks, nil
}
