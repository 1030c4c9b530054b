package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// ExportHandler serves note exports as file downloads.
type ExportHandler struct {
	exports *service.ExportService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exports *service.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		logger:  logger,
	}
}

// ExportNote renders a note in the requested format.
// GET /api/notes/{id}/export?format=html|markdown
func (h *ExportHandler) ExportNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.ExportMarkdown
	}

	export, err := h.exports.ExportNote(r.Context(), id, httputil.GetUserID(r), format)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Body)
}
