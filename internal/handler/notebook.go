package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// NotebookHandler handles notebook HTTP requests.
type NotebookHandler struct {
	notebooks *service.NotebookService
	logger    *slog.Logger
}

// NewNotebookHandler creates a new notebook handler.
func NewNotebookHandler(notebooks *service.NotebookService, logger *slog.Logger) *NotebookHandler {
	return &NotebookHandler{
		notebooks: notebooks,
		logger:    logger,
	}
}

// CreateNotebook creates a notebook.
// POST /api/notebooks
func (h *NotebookHandler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNotebookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	nb, err := h.notebooks.CreateNotebook(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, nb)
}

// GetNotebook retrieves a notebook.
// GET /api/notebooks/{id}
func (h *NotebookHandler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook ID is required")
		return
	}

	nb, err := h.notebooks.GetNotebook(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nb)
}

// UpdateNotebook applies a partial update.
// PATCH /api/notebooks/{id}
func (h *NotebookHandler) UpdateNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook ID is required")
		return
	}

	var req models.UpdateNotebookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	nb, err := h.notebooks.UpdateNotebook(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nb)
}

// DeleteNotebook removes a notebook; its notes become unfiled.
// DELETE /api/notebooks/{id}
func (h *NotebookHandler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook ID is required")
		return
	}

	if err := h.notebooks.DeleteNotebook(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNotebooks lists the user's notebooks.
// GET /api/notebooks
func (h *NotebookHandler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.notebooks.ListNotebooks(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if notebooks == nil {
		notebooks = []models.Notebook{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"notebooks": notebooks,
		"total":     len(notebooks),
	})
}
