package handler

import (
	"net/http"

	"github.com/wojp/backoffice/internal/audit"
)

// AuditHandler serves the read side of the audit trail.
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List returns the newest audit entries. The limit query parameter is
// clamped by the recorder.
// GET /api/v1/admin/audit?limit=...
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.recorder.List(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListByActor returns the newest audit entries for one admin.
// GET /api/v1/admin/audit/actor/{adminID}?limit=...
func (h *AuditHandler) ListByActor(w http.ResponseWriter, r *http.Request) {
	entries, err := h.recorder.ListByActor(r.Context(), urlID(r, "adminID"), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
