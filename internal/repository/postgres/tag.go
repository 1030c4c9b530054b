package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// TagRepository implements repositories.TagRepository.
type TagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &TagRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Tags)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		tag.UserID,
		tag.Name,
		tag.Color,
	).Scan(&tag.ID, &tag.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag '%s' already exists: %w", tag.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag by ID.
func (r *TagRepository) GetByID(ctx context.Context, id, userID string) (*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, color, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Tags)

	var tag models.Tag
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.Color,
		&tag.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// Update updates an existing tag.
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $1, color = $2
		WHERE id = $3 AND user_id = $4
	`, r.tables.Tags)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, tag.Name, tag.Color, tag.ID, tag.UserID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag '%s' already exists: %w", tag.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", tag.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a tag; note links go with it via ON DELETE CASCADE.
func (r *TagRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Tags)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns all of a user's tags.
func (r *TagRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, color, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY name ASC
	`, r.tables.Tags)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}

// AttachToNote links a tag to a note; attaching twice is a no-op.
func (r *TagRepository) AttachToNote(ctx context.Context, noteID, tagID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (note_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.tables.NoteTags)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, noteID, tagID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("note or tag: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

// DetachFromNote removes a note-tag link.
func (r *TagRepository) DetachFromNote(ctx context.Context, noteID, tagID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE note_id = $1 AND tag_id = $2
	`, r.tables.NoteTags)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, noteID, tagID); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	return nil
}

// ListByNote returns the tags attached to a note.
func (r *TagRepository) ListByNote(ctx context.Context, noteID string) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.name, t.color, t.created_at
		FROM %s t
		JOIN %s nt ON nt.tag_id = t.id
		WHERE nt.note_id = $1
		ORDER BY t.name ASC
	`, r.tables.Tags, r.tables.NoteTags)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("list note tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}
