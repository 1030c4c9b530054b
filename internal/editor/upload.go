package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"inkwell/internal/domain/models"
)

// BlobStorage is the content/object storage the upload pipeline writes
// to. Paths are content-addressed by owner, note and upload timestamp;
// objects are never overwritten.
type BlobStorage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	PublicURL(path string) string
	Remove(ctx context.Context, path string) error
}

// AttachmentStore is the slice of the attachment repository the pipeline
// depends on.
type AttachmentStore interface {
	Create(ctx context.Context, att *models.Attachment) error
	GetByID(ctx context.Context, id, userID string) (*models.Attachment, error)
	Delete(ctx context.Context, id, userID string) error
}

// IncomingFile is one binary payload arriving via paste, drop or the
// attach button.
type IncomingFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is the per-file outcome. Files succeed and fail
// independently; one failure never aborts its siblings.
type UploadResult struct {
	FileName   string             `json:"file_name"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
	URL        string             `json:"url,omitempty"`
	Inlined    bool               `json:"inlined"`
	Err        error              `json:"-"`
	Error      string             `json:"error,omitempty"`
}

// Uploader handles binary payloads without disrupting the debounced
// text-save flow. Uploads run independently of the autosave timer; image
// insertion goes through the session's ordinary content-edit path.
type Uploader struct {
	blobs  BlobStorage
	atts   AttachmentStore
	clock  Clock
	notify Notifier
	logger *slog.Logger
}

// NewUploader creates the attachment pipeline.
func NewUploader(blobs BlobStorage, atts AttachmentStore, clock Clock, notify Notifier, logger *slog.Logger) *Uploader {
	return &Uploader{
		blobs:  blobs,
		atts:   atts,
		clock:  clock,
		notify: notify,
		logger: logger,
	}
}

// HandleFiles processes a drop/paste batch for the bound note. Images
// are uploaded and inlined at the drop position; other files are
// uploaded and recorded as attachments only. Each file's outcome is
// independent.
func (u *Uploader) HandleFiles(ctx context.Context, sess *Session, files []IncomingFile, position int) []UploadResult {
	note := sess.Note()
	if note == nil {
		results := make([]UploadResult, len(files))
		for i, f := range files {
			results[i] = UploadResult{FileName: f.Name, Err: fmt.Errorf("no note bound"), Error: "no note bound"}
		}
		return results
	}

	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		res := u.uploadOne(ctx, sess, note.ID, f, position)
		if res.Err != nil {
			res.Error = res.Err.Error()
			u.logger.Warn("upload failed", "file", f.Name, "note_id", note.ID, "error", res.Err)
			u.notify.Error(fmt.Sprintf("Failed to upload %s", f.Name))
		} else {
			u.notify.Success(fmt.Sprintf("Uploaded %s", f.Name))
		}
		results = append(results, res)
	}
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, sess *Session, noteID string, f IncomingFile, position int) UploadResult {
	res := UploadResult{FileName: f.Name}

	path := u.objectPath(sess.UserID(), noteID, f.Name)
	storedPath, err := u.blobs.Upload(ctx, path, f.ContentType, f.Body)
	if err != nil {
		res.Err = fmt.Errorf("upload %s: %w", f.Name, err)
		return res
	}

	att := &models.Attachment{
		NoteID:      noteID,
		UserID:      sess.UserID(),
		FileName:    f.Name,
		FileType:    f.ContentType,
		FileSize:    f.Size,
		StoragePath: storedPath,
	}
	if err := u.atts.Create(ctx, att); err != nil {
		res.Err = fmt.Errorf("record attachment %s: %w", f.Name, err)
		return res
	}
	res.Attachment = att
	res.URL = u.blobs.PublicURL(storedPath)

	if isImage(f.ContentType) {
		sess.InsertImage(res.URL, position)
		res.Inlined = true
	}
	return res
}

// Delete removes an attachment: storage object first, then the metadata
// row. If storage removal fails the row is kept - storage is the source
// of truth for existence, and a dangling row with no backing object is
// the worse inconsistency.
func (u *Uploader) Delete(ctx context.Context, id, userID string) error {
	att, err := u.atts.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := u.blobs.Remove(ctx, att.StoragePath); err != nil {
		return fmt.Errorf("remove storage object %s: %w", att.StoragePath, err)
	}
	return u.atts.Delete(ctx, id, userID)
}

// objectPath derives a unique destination from owner, note and upload
// timestamp, preserving the original extension.
func (u *Uploader) objectPath(userID, noteID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s/%d%s", userID, noteID, u.clock.Now().UnixNano(), ext)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
