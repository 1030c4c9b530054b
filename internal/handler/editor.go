package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/config"
	"inkwell/internal/editor"
	"inkwell/internal/httputil"
	"inkwell/internal/richtext"
)

// EditorHandler exposes the editing session over HTTP: one open note per
// user, keystroke-level edit events feeding the debounced autosave, and
// the discrete actions that bypass it.
type EditorHandler struct {
	manager  *editor.Manager
	uploader *editor.Uploader
	logger   *slog.Logger
}

// NewEditorHandler creates a new editor handler.
func NewEditorHandler(manager *editor.Manager, uploader *editor.Uploader, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		manager:  manager,
		uploader: uploader,
		logger:   logger,
	}
}

// sessionStatus is the session view returned by open and status calls.
type sessionStatus struct {
	State     string `json:"state"`
	NoteID    string `json:"note_id,omitempty"`
	Title     string `json:"title,omitempty"`
	WordCount int    `json:"word_count"`
	Saving    bool   `json:"saving"`
}

func statusOf(sess *editor.Session) sessionStatus {
	st := sessionStatus{
		State:     sess.State().String(),
		WordCount: sess.WordCount(),
		Saving:    sess.Saving(),
	}
	if note := sess.Note(); note != nil {
		st.NoteID = note.ID
		st.Title = note.Title
	}
	return st
}

// OpenNote binds a note for editing, switching from the currently open
// one if needed (the outgoing note's buffered edits are flushed first).
// POST /api/editor/open/{id}
func (h *EditorHandler) OpenNote(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	noteID := r.PathValue("id")
	if noteID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	sess, err := h.manager.Open(r.Context(), userID, noteID)
	if err != nil {
		if sess != nil && sess.State() == editor.StateNotFound {
			httputil.RespondError(w, http.StatusNotFound, "note not found")
			return
		}
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, statusOf(sess))
}

// Status reports the current session state.
// GET /api/editor/status
func (h *EditorHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Get(httputil.GetUserID(r))
	if sess == nil {
		httputil.RespondJSON(w, http.StatusOK, sessionStatus{State: "closed"})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, statusOf(sess))
}

// contentChangeRequest carries the full content tree after an edit.
type contentChangeRequest struct {
	Content *richtext.Doc `json:"content"`
}

// ContentChanged accepts a content edit. The save is debounced; the
// response only acknowledges receipt.
// POST /api/editor/content
func (h *EditorHandler) ContentChanged(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Get(httputil.GetUserID(r))
	if sess == nil || sess.State() != editor.StateBound {
		httputil.RespondError(w, http.StatusConflict, "no note is open for editing")
		return
	}

	var req contentChangeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Content == nil {
		req.Content = richtext.NewDoc()
	}

	sess.OnContentChanged(req.Content)
	httputil.RespondJSON(w, http.StatusAccepted, statusOf(sess))
}

// titleChangeRequest carries the title after a keystroke.
type titleChangeRequest struct {
	Title string `json:"title"`
}

// TitleChanged accepts a title edit (debounced like content).
// POST /api/editor/title
func (h *EditorHandler) TitleChanged(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Get(httputil.GetUserID(r))
	if sess == nil || sess.State() != editor.StateBound {
		httputil.RespondError(w, http.StatusConflict, "no note is open for editing")
		return
	}

	var req titleChangeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Title) > config.MaxNoteTitleLength {
		httputil.RespondError(w, http.StatusBadRequest, "title too long")
		return
	}

	sess.OnTitleChanged(req.Title)
	httputil.RespondJSON(w, http.StatusAccepted, statusOf(sess))
}

// TitleBlur flushes the buffered patch immediately so list views pick up
// the rename without waiting out the debounce window.
// POST /api/editor/title/blur
func (h *EditorHandler) TitleBlur(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Get(httputil.GetUserID(r))
	if sess == nil {
		httputil.RespondError(w, http.StatusConflict, "no note is open for editing")
		return
	}

	sess.OnTitleBlur(r.Context())
	httputil.RespondJSON(w, http.StatusOK, statusOf(sess))
}

// CloseSession tears down the session, flushing any buffered patch.
// POST /api/editor/close
func (h *EditorHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.manager.Close(httputil.GetUserID(r))
	w.WriteHeader(http.StatusNoContent)
}

// UploadFiles accepts a multipart batch of dropped or pasted files.
// Images are inlined at the given position; all files become
// attachments. Outcomes are per-file.
// POST /api/editor/files
func (h *EditorHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	sess := h.manager.Get(userID)
	if sess == nil || sess.State() != editor.StateBound {
		httputil.RespondError(w, http.StatusConflict, "no note is open for editing")
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	position := 0
	if p := r.FormValue("position"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid position")
			return
		}
		position = parsed
	}

	var files []editor.IncomingFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "unreadable file part")
			return
		}
		defer f.Close()
		files = append(files, editor.IncomingFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		})
	}
	if len(files) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	results := sess.OnFilesDropped(r.Context(), h.uploader, files, position)
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// ToggleFavorite flips the favorite flag immediately (not debounced).
// POST /api/editor/favorite
func (h *EditorHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.discreteAction(w, r, func(sess *editor.Session) error {
		return sess.ToggleFavorite(r.Context())
	})
}

// MoveToTrash trashes the open note immediately.
// POST /api/editor/trash
func (h *EditorHandler) MoveToTrash(w http.ResponseWriter, r *http.Request) {
	h.discreteAction(w, r, func(sess *editor.Session) error {
		return sess.MoveToTrash(r.Context())
	})
}

// RestoreFromTrash restores the open note immediately.
// POST /api/editor/restore
func (h *EditorHandler) RestoreFromTrash(w http.ResponseWriter, r *http.Request) {
	h.discreteAction(w, r, func(sess *editor.Session) error {
		return sess.RestoreFromTrash(r.Context())
	})
}

// DeletePermanently deletes the open note. Buffered edits are dropped,
// not flushed; there is nothing left to save them to.
// DELETE /api/editor/note
func (h *EditorHandler) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	h.discreteAction(w, r, func(sess *editor.Session) error {
		return sess.DeletePermanently(r.Context())
	})
}

func (h *EditorHandler) discreteAction(w http.ResponseWriter, r *http.Request, fn func(*editor.Session) error) {
	sess := h.manager.Get(httputil.GetUserID(r))
	if sess == nil {
		httputil.RespondError(w, http.StatusConflict, "no note is open for editing")
		return
	}
	if err := fn(sess); err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, statusOf(sess))
}

// appStateResponse mirrors editor.AppState for the client shell.
type appStateResponse struct {
	SelectedNoteID     *string `json:"selected_note_id"`
	SelectedNotebookID *string `json:"selected_notebook_id"`
	SidebarOpen        bool    `json:"sidebar_open"`
}

// GetAppState returns the user's workspace UI state.
// GET /api/editor/state
func (h *EditorHandler) GetAppState(w http.ResponseWriter, r *http.Request) {
	state := h.manager.AppState(httputil.GetUserID(r))
	httputil.RespondJSON(w, http.StatusOK, appStateResponse{
		SelectedNoteID:     state.SelectedNote(),
		SelectedNotebookID: state.SelectedNotebook(),
		SidebarOpen:        state.SidebarOpen(),
	})
}

// appStateRequest carries partial workspace state updates.
type appStateRequest struct {
	SelectedNotebookID httputil.OptionalString `json:"selected_notebook_id"`
	SidebarOpen        *bool                   `json:"sidebar_open"`
}

// UpdateAppState applies partial workspace state updates.
// PATCH /api/editor/state
func (h *EditorHandler) UpdateAppState(w http.ResponseWriter, r *http.Request) {
	var req appStateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := h.manager.AppState(httputil.GetUserID(r))
	if req.SelectedNotebookID.Present {
		state.SetSelectedNotebook(req.SelectedNotebookID.Value)
	}
	if req.SidebarOpen != nil {
		state.SetSidebarOpen(*req.SidebarOpen)
	}

	httputil.RespondJSON(w, http.StatusOK, appStateResponse{
		SelectedNoteID:     state.SelectedNote(),
		SelectedNotebookID: state.SelectedNotebook(),
		SidebarOpen:        state.SidebarOpen(),
	})
}
