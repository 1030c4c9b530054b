package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// TagHandler handles tag HTTP requests.
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tags:   tags,
		logger: logger,
	}
}

// CreateTag creates a tag.
// POST /api/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tag)
}

// UpdateTag applies a partial update.
// PATCH /api/tags/{id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag ID is required")
		return
	}

	var req models.UpdateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := h.tags.UpdateTag(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tag)
}

// DeleteTag deletes a tag and its note links.
// DELETE /api/tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag ID is required")
		return
	}

	if err := h.tags.DeleteTag(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTags lists the user's tags.
// GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"tags":  tags,
		"total": len(tags),
	})
}

// AttachTag links a tag to a note.
// PUT /api/notes/{id}/tags/{tagID}
func (h *TagHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	tagID := r.PathValue("tagID")
	if noteID == "" || tagID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID and tag ID are required")
		return
	}

	if err := h.tags.AttachTag(r.Context(), noteID, tagID, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DetachTag removes a note-tag link.
// DELETE /api/notes/{id}/tags/{tagID}
func (h *TagHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	tagID := r.PathValue("tagID")
	if noteID == "" || tagID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID and tag ID are required")
		return
	}

	if err := h.tags.DetachTag(r.Context(), noteID, tagID, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNoteTags returns the tags attached to a note.
// GET /api/notes/{id}/tags
func (h *TagHandler) ListNoteTags(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	if noteID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	tags, err := h.tags.ListNoteTags(r.Context(), noteID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"tags":  tags,
		"total": len(tags),
	})
}
