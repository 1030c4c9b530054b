package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// NoteHandler handles the discrete note operations: create, list,
// search, and version snapshots. Continuous editing goes through the
// editor handler.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:  notes,
		logger: logger,
	}
}

// CreateNote creates a note.
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.notes.CreateNote(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves a note.
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	note, err := h.notes.GetNote(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// ListNotes lists notes, filtered by query parameters.
// GET /api/notes?notebook_id=&tag_id=&favorited=&trashed=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := &models.NoteListOptions{
		Favorited: q.Get("favorited") == "true",
		Trashed:   q.Get("trashed") == "true",
	}
	if nb := q.Get("notebook_id"); nb != "" {
		opts.NotebookID = &nb
	}
	if tag := q.Get("tag_id"); tag != "" {
		opts.TagID = &tag
	}

	notes, err := h.notes.ListNotes(r.Context(), httputil.GetUserID(r), opts)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"total": len(notes),
	})
}

// SearchNotes finds notes matching the query.
// GET /api/notes/search?q=
func (h *NoteHandler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	notes, err := h.notes.SearchNotes(r.Context(), httputil.GetUserID(r), query)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"total": len(notes),
	})
}

// SetPinned pins or unpins a note.
// PUT /api/notes/{id}/pin
func (h *NoteHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	var req struct {
		Pinned bool `json:"is_pinned"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.notes.SetPinned(r.Context(), id, httputil.GetUserID(r), req.Pinned); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SnapshotVersion captures the note's current title and content as an
// immutable version.
// POST /api/notes/{id}/versions
func (h *NoteHandler) SnapshotVersion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	v, err := h.notes.SnapshotVersion(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, v)
}

// ListVersions returns a note's version history, newest first.
// GET /api/notes/{id}/versions
func (h *NoteHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	versions, err := h.notes.ListVersions(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if versions == nil {
		versions = []models.NoteVersion{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"versions": versions,
		"total":    len(versions),
	})
}
