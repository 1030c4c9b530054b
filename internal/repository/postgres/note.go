package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// NoteRepository implements repositories.NoteRepository. It also
// satisfies the editor package's NoteStore.
type NoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(config *RepositoryConfig) *NoteRepository {
	return &NoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// Create creates a new note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	content, err := marshalDoc(note.Content)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, notebook_id, title, content, plain_text, word_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		note.UserID,
		note.NotebookID,
		note.Title,
		content,
		note.PlainText,
		note.WordCount,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("notebook %v: %w", note.NotebookID, domain.ErrNotFound)
		}
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID, scoped to its owner.
func (r *NoteRepository) GetByID(ctx context.Context, id, userID string) (*models.Note, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, notebook_id, title, content, plain_text, word_count,
		       is_favorited, is_pinned, is_trashed, trashed_at, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notes)

	var note models.Note
	var content []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&note.ID,
		&note.UserID,
		&note.NotebookID,
		&note.Title,
		&content,
		&note.PlainText,
		&note.WordCount,
		&note.Favorited,
		&note.Pinned,
		&note.Trashed,
		&note.TrashedAt,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	if note.Content, err = scanDoc(content); err != nil {
		return nil, err
	}

	return &note, nil
}

// UpdateFields applies a partial update: only the patch's non-nil fields
// change. This is the autosave write path, so the SET clause is built
// from exactly the supplied fields.
func (r *NoteRepository) UpdateFields(ctx context.Context, id, userID string, patch *models.NotePatch) error {
	if patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Content != nil {
		content, err := marshalDoc(patch.Content)
		if err != nil {
			return err
		}
		sets = append(sets, "content = "+arg(content))
	}
	if patch.PlainText != nil {
		sets = append(sets, "plain_text = "+arg(*patch.PlainText))
	}
	if patch.WordCount != nil {
		sets = append(sets, "word_count = "+arg(*patch.WordCount))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE %s SET %s
		WHERE id = %s AND user_id = %s
	`, r.tables.Notes, strings.Join(sets, ", "), arg(id), arg(userID))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetFavorited toggles the favorited flag.
func (r *NoteRepository) SetFavorited(ctx context.Context, id, userID string, favorited bool) error {
	return r.setFlag(ctx, id, userID, "is_favorited", favorited)
}

// SetPinned toggles the pinned flag.
func (r *NoteRepository) SetPinned(ctx context.Context, id, userID string, pinned bool) error {
	return r.setFlag(ctx, id, userID, "is_pinned", pinned)
}

func (r *NoteRepository) setFlag(ctx context.Context, id, userID, column string, value bool) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
	`, r.tables.Notes, column)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, value, id, userID)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MoveToTrash sets the trashed flag and timestamp.
func (r *NoteRepository) MoveToTrash(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_trashed = true, trashed_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("move note to trash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RestoreFromTrash clears the trashed flag and timestamp.
func (r *NoteRepository) RestoreFromTrash(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_trashed = false, trashed_at = NULL, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("restore note from trash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete permanently deletes a note.
func (r *NoteRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Notes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List lists note metadata (no content or plain text) for the given
// filters, pinned first, then most recently updated.
func (r *NoteRepository) List(ctx context.Context, userID string, opts *models.NoteListOptions) ([]models.Note, error) {
	if opts == nil {
		opts = &models.NoteListOptions{}
	}

	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	if opts.Trashed {
		where = append(where, "is_trashed = true")
	} else {
		where = append(where, "is_trashed = false")
	}
	if opts.Favorited {
		where = append(where, "is_favorited = true")
	}
	if opts.NotebookID != nil {
		args = append(args, *opts.NotebookID)
		where = append(where, fmt.Sprintf("notebook_id = $%d", len(args)))
	}

	var join string
	if opts.TagID != nil {
		args = append(args, *opts.TagID)
		join = fmt.Sprintf("JOIN %s nt ON nt.note_id = n.id AND nt.tag_id = $%d", r.tables.NoteTags, len(args))
	}

	query := fmt.Sprintf(`
		SELECT n.id, n.user_id, n.notebook_id, n.title, n.word_count,
		       n.is_favorited, n.is_pinned, n.is_trashed, n.trashed_at, n.created_at, n.updated_at
		FROM %s n %s
		WHERE %s
		ORDER BY n.is_pinned DESC, n.updated_at DESC
	`, r.tables.Notes, join, prefixColumns(where))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.NotebookID,
			&note.Title,
			&note.WordCount,
			&note.Favorited,
			&note.Pinned,
			&note.Trashed,
			&note.TrashedAt,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// Search finds non-trashed notes whose title or plain text contains the
// query substring, case-insensitively.
func (r *NoteRepository) Search(ctx context.Context, userID, query string) ([]models.Note, error) {
	sql := fmt.Sprintf(`
		SELECT id, user_id, notebook_id, title, word_count,
		       is_favorited, is_pinned, is_trashed, trashed_at, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND is_trashed = false
		  AND (title ILIKE $2 OR plain_text ILIKE $2)
		ORDER BY updated_at DESC
	`, r.tables.Notes)

	pattern := "%" + escapeLike(query) + "%"
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, sql, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.NotebookID,
			&note.Title,
			&note.WordCount,
			&note.Favorited,
			&note.Pinned,
			&note.Trashed,
			&note.TrashedAt,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// prefixColumns qualifies plain column predicates with the note alias.
func prefixColumns(where []string) string {
	qualified := make([]string, len(where))
	for i, w := range where {
		qualified[i] = "n." + w
	}
	return strings.Join(qualified, " AND ")
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
