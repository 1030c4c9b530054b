package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/editor"
	"inkwell/internal/httputil"
)

// AttachmentHandler handles attachment listing and deletion. Uploads go
// through the editor handler; they are part of the editing flow.
type AttachmentHandler struct {
	atts     repositories.AttachmentRepository
	uploader *editor.Uploader
	blobs    editor.BlobStorage
	logger   *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler.
func NewAttachmentHandler(atts repositories.AttachmentRepository, uploader *editor.Uploader, blobs editor.BlobStorage, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		atts:     atts,
		uploader: uploader,
		blobs:    blobs,
		logger:   logger,
	}
}

// attachmentView decorates an attachment row with its access URL.
type attachmentView struct {
	models.Attachment
	URL string `json:"url"`
}

// ListByNote returns a note's attachments with access URLs.
// GET /api/notes/{id}/attachments
func (h *AttachmentHandler) ListByNote(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	if noteID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	atts, err := h.atts.ListByNote(r.Context(), noteID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	views := make([]attachmentView, 0, len(atts))
	for _, att := range atts {
		views = append(views, attachmentView{
			Attachment: att,
			URL:        h.blobs.PublicURL(att.StoragePath),
		})
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"attachments": views,
		"total":       len(views),
	})
}

// GetAttachment returns one attachment with its access URL.
// GET /api/attachments/{id}
func (h *AttachmentHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "attachment ID is required")
		return
	}

	att, err := h.atts.GetByID(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, attachmentView{
		Attachment: *att,
		URL:        h.blobs.PublicURL(att.StoragePath),
	})
}

// DeleteAttachment removes an attachment: storage object first, then the
// metadata row.
// DELETE /api/attachments/{id}
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "attachment ID is required")
		return
	}

	if err := h.uploader.Delete(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
