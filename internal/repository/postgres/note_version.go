package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// NoteVersionRepository implements repositories.NoteVersionRepository.
type NoteVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNoteVersionRepository creates a new note version repository.
func NewNoteVersionRepository(config *RepositoryConfig) repositories.NoteVersionRepository {
	return &NoteVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a snapshot, assigning the next version number for the
// note. Versions are append-only; there is no update path.
func (r *NoteVersionRepository) Create(ctx context.Context, v *models.NoteVersion) error {
	content, err := marshalDoc(v.Content)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (note_id, user_id, title, content, version_number)
		VALUES ($1, $2, $3, $4,
			COALESCE((SELECT MAX(version_number) FROM %s WHERE note_id = $1), 0) + 1)
		RETURNING id, version_number, created_at
	`, r.tables.NoteVersions, r.tables.NoteVersions)

	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		v.NoteID,
		v.UserID,
		v.Title,
		content,
	).Scan(&v.ID, &v.VersionNumber, &v.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("note %s: %w", v.NoteID, domain.ErrNotFound)
		}
		return fmt.Errorf("create note version: %w", err)
	}

	return nil
}

// ListByNote returns a note's versions, newest first.
func (r *NoteVersionRepository) ListByNote(ctx context.Context, noteID, userID string) ([]models.NoteVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, note_id, user_id, title, content, version_number, created_at
		FROM %s
		WHERE note_id = $1 AND user_id = $2
		ORDER BY version_number DESC
	`, r.tables.NoteVersions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("list note versions: %w", err)
	}
	defer rows.Close()

	var versions []models.NoteVersion
	for rows.Next() {
		var v models.NoteVersion
		var content []byte
		err := rows.Scan(
			&v.ID,
			&v.NoteID,
			&v.UserID,
			&v.Title,
			&content,
			&v.VersionNumber,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note version: %w", err)
		}
		if v.Content, err = scanDoc(content); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note versions: %w", err)
	}

	return versions, nil
}
