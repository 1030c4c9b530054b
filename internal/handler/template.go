package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// TemplateHandler handles template HTTP requests.
type TemplateHandler struct {
	templates *service.TemplateService
	logger    *slog.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(templates *service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		logger:    logger,
	}
}

// ListTemplates lists built-in templates followed by the user's own.
// GET /api/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.ListTemplates(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"total":     len(templates),
	})
}

// GetTemplate retrieves a template.
// GET /api/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "template ID is required")
		return
	}

	tpl, err := h.templates.GetTemplate(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// CreateTemplate saves a user template.
// POST /api/templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tpl, err := h.templates.CreateTemplate(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// DeleteTemplate removes a user template.
// DELETE /api/templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "template ID is required")
		return
	}

	if err := h.templates.DeleteTemplate(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// instantiateRequest optionally files the new note in a notebook.
type instantiateRequest struct {
	NotebookID *string `json:"notebook_id,omitempty"`
}

// InstantiateTemplate creates a new note from a template.
// POST /api/templates/{id}/instantiate
func (h *TemplateHandler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "template ID is required")
		return
	}

	var req instantiateRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	note, err := h.templates.InstantiateTemplate(r.Context(), id, httputil.GetUserID(r), req.NotebookID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, note)
}
