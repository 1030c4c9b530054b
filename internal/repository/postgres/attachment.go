package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// AttachmentRepository implements repositories.AttachmentRepository. It
// also satisfies the editor package's AttachmentStore.
type AttachmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(config *RepositoryConfig) *AttachmentRepository {
	return &AttachmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

var _ repositories.AttachmentRepository = (*AttachmentRepository)(nil)

// Create inserts an attachment metadata row.
func (r *AttachmentRepository) Create(ctx context.Context, att *models.Attachment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (note_id, user_id, file_name, file_type, file_size, storage_path, ocr_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Attachments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		att.NoteID,
		att.UserID,
		att.FileName,
		att.FileType,
		att.FileSize,
		att.StoragePath,
		att.OCRText,
	).Scan(&att.ID, &att.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("note %s: %w", att.NoteID, domain.ErrNotFound)
		}
		return fmt.Errorf("create attachment: %w", err)
	}

	return nil
}

// GetByID retrieves an attachment by ID.
func (r *AttachmentRepository) GetByID(ctx context.Context, id, userID string) (*models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, note_id, user_id, file_name, file_type, file_size, storage_path, ocr_text, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Attachments)

	var att models.Attachment
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&att.ID,
		&att.NoteID,
		&att.UserID,
		&att.FileName,
		&att.FileType,
		&att.FileSize,
		&att.StoragePath,
		&att.OCRText,
		&att.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}

	return &att, nil
}

// Delete removes an attachment metadata row.
func (r *AttachmentRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Attachments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByNote returns a note's attachments, newest first.
func (r *AttachmentRepository) ListByNote(ctx context.Context, noteID, userID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, note_id, user_id, file_name, file_type, file_size, storage_path, ocr_text, created_at
		FROM %s
		WHERE note_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`, r.tables.Attachments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var att models.Attachment
		err := rows.Scan(
			&att.ID,
			&att.NoteID,
			&att.UserID,
			&att.FileName,
			&att.FileType,
			&att.FileSize,
			&att.StoragePath,
			&att.OCRText,
			&att.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return attachments, nil
}
