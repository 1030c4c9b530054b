package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// SharedLinkRepository implements repositories.SharedLinkRepository.
type SharedLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSharedLinkRepository creates a new shared link repository.
func NewSharedLinkRepository(config *RepositoryConfig) repositories.SharedLinkRepository {
	return &SharedLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a share link row.
func (r *SharedLinkRepository) Create(ctx context.Context, link *models.SharedLink) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (note_id, user_id, token, password_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, view_count, created_at
	`, r.tables.SharedLinks)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		link.NoteID,
		link.UserID,
		link.Token,
		link.PasswordHash,
		link.ExpiresAt,
	).Scan(&link.ID, &link.Active, &link.ViewCount, &link.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("note %s: %w", link.NoteID, domain.ErrNotFound)
		}
		return fmt.Errorf("create shared link: %w", err)
	}

	return nil
}

// GetActiveByToken retrieves an active link by its opaque token.
func (r *SharedLinkRepository) GetActiveByToken(ctx context.Context, token string) (*models.SharedLink, error) {
	query := fmt.Sprintf(`
		SELECT id, note_id, user_id, token, password_hash, expires_at, is_active, view_count, created_at
		FROM %s
		WHERE token = $1 AND is_active = true
	`, r.tables.SharedLinks)

	var link models.SharedLink
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, token).Scan(
		&link.ID,
		&link.NoteID,
		&link.UserID,
		&link.Token,
		&link.PasswordHash,
		&link.ExpiresAt,
		&link.Active,
		&link.ViewCount,
		&link.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("share token: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get shared link: %w", err)
	}

	return &link, nil
}

// IncrementViewCount bumps the view counter.
func (r *SharedLinkRepository) IncrementViewCount(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET view_count = view_count + 1
		WHERE id = $1
	`, r.tables.SharedLinks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// Deactivate revokes a link without deleting its row.
func (r *SharedLinkRepository) Deactivate(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_active = false
		WHERE id = $1 AND user_id = $2
	`, r.tables.SharedLinks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate shared link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("shared link %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByNote returns a note's share links, newest first.
func (r *SharedLinkRepository) ListByNote(ctx context.Context, noteID, userID string) ([]models.SharedLink, error) {
	query := fmt.Sprintf(`
		SELECT id, note_id, user_id, token, password_hash, expires_at, is_active, view_count, created_at
		FROM %s
		WHERE note_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`, r.tables.SharedLinks)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared links: %w", err)
	}
	defer rows.Close()

	var links []models.SharedLink
	for rows.Next() {
		var link models.SharedLink
		err := rows.Scan(
			&link.ID,
			&link.NoteID,
			&link.UserID,
			&link.Token,
			&link.PasswordHash,
			&link.ExpiresAt,
			&link.Active,
			&link.ViewCount,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan shared link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared links: %w", err)
	}

	return links, nil
}
