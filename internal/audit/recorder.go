// Package audit records the trail of mutating admin actions. Recording is
// advisory: a failed audit write is logged and swallowed, never surfaced to
// the mutation that triggered it.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mssola/useragent"

	"github.com/wojp/backoffice/internal/model"
)

// Limits applied to the read side. Caller-supplied limits are clamped, not
// rejected.
const (
	DefaultListLimit  = 100
	MaxListLimit      = 500
	DefaultActorLimit = 50
	MaxActorLimit     = 200
)

// Store is the slice of the storage layer the recorder needs.
type Store interface {
	InsertAuditLog(ctx context.Context, entry *model.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error)
	ListAuditLogsByActor(ctx context.Context, adminID int64, limit int) ([]model.AuditLog, error)
}

// Recorder persists audit entries on behalf of mutating handlers.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder builds a Recorder. The logger receives warnings for failed
// writes.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record persists one entry for a successful mutation. It must be called
// strictly after the primary write succeeds; it is never retried, and a
// storage failure here is logged and dropped. details is serialized to JSON
// and stored opaquely; nil means no details.
func (rec *Recorder) Record(ctx context.Context, actor *model.Admin, r *http.Request, action, resourceType string, resourceID *int64, details any) {
	entry := &model.AuditLog{
		AdminID:      actor.ID,
		AdminEmail:   actor.Email,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	if details != nil {
		if payload, err := json.Marshal(details); err == nil {
			s := string(payload)
			entry.Details = &s
		}
	}

	if r != nil {
		if ip := r.RemoteAddr; ip != "" {
			entry.IPAddress = &ip
		}
		if ua := r.UserAgent(); ua != "" {
			desc := describeClient(ua)
			entry.UserAgent = &desc
		}
	}

	if err := rec.store.InsertAuditLog(ctx, entry); err != nil {
		rec.logger.Warn("failed to record audit entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"admin_id", actor.ID,
		)
	}
}

// List returns the newest entries, clamping limit to [1, MaxListLimit].
// limit <= 0 selects the default.
func (rec *Recorder) List(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return rec.store.ListAuditLogs(ctx, clamp(limit, DefaultListLimit, MaxListLimit))
}

// ListByActor returns the newest entries for one admin, clamping limit to
// [1, MaxActorLimit]. limit <= 0 selects the default.
func (rec *Recorder) ListByActor(ctx context.Context, adminID int64, limit int) ([]model.AuditLog, error) {
	return rec.store.ListAuditLogsByActor(ctx, adminID, clamp(limit, DefaultActorLimit, MaxActorLimit))
}

// describeClient stores the raw User-Agent prefixed with a compact
// browser/platform summary, which is what reviewers scan for in the panel.
func describeClient(rawUA string) string {
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return rawUA
	}
	summary := name
	if version != "" {
		summary += " " + version
	}
	if osInfo := ua.OS(); osInfo != "" {
		summary += " on " + osInfo
	}
	return summary + " | " + rawUA
}

func clamp(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
