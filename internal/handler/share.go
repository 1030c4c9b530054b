package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
	"inkwell/internal/service"
)

// ShareHandler handles share link issuance, redemption and revocation.
// Redemption is unauthenticated; the token is the credential.
type ShareHandler struct {
	shares *service.ShareService
	logger *slog.Logger
}

// NewShareHandler creates a new share handler.
func NewShareHandler(shares *service.ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shares: shares,
		logger: logger,
	}
}

// CreateLink issues a share link for a note.
// POST /api/shares
func (h *ShareHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req models.CreateShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	link, err := h.shares.CreateLink(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, link)
}

// redeemRequest carries the optional password for protected links.
type redeemRequest struct {
	Password string `json:"password"`
}

// Redeem resolves a share token to the read-only note view. Public; the
// optional password arrives in the body so it stays out of access logs.
// POST /api/shared/{token}
func (h *ShareHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		httputil.RespondError(w, http.StatusBadRequest, "share token is required")
		return
	}

	var req redeemRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	shared, err := h.shares.Redeem(r.Context(), token, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, shared)
}

// Deactivate revokes a share link.
// DELETE /api/shares/{id}
func (h *ShareHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "share link ID is required")
		return
	}

	if err := h.shares.Deactivate(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByNote returns a note's share links.
// GET /api/notes/{id}/shares
func (h *ShareHandler) ListByNote(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	if noteID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note ID is required")
		return
	}

	links, err := h.shares.ListLinks(r.Context(), noteID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if links == nil {
		links = []models.SharedLink{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"shares": links,
		"total":  len(links),
	})
}
