package store

import (
	"context"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// InsertAuditLog appends one audit entry. Entries are never updated or
// deleted through the store.
func (s *Store) InsertAuditLog(ctx context.Context, entry *model.AuditLog) error {
	entry.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO audit_logs
		(admin_id, admin_email, action, resource_type, resource_id, details,
			ip_address, user_agent, created_at)
		VALUES
		(:admin_id, :admin_email, :action, :resource_type, :resource_id, :details,
			:ip_address, :user_agent, :created_at)`

	result, err := s.db.NamedExecContext(ctx, q, entry)
	if err != nil {
		return translate(err, "insert audit log")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get audit log id")
	}
	entry.ID = id
	return nil
}

// ListAuditLogs returns the newest entries first, bounded by limit.
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?", limit); err != nil {
		return nil, translate(err, "list audit logs")
	}
	return entries, nil
}

// ListAuditLogsByActor returns the newest entries for one admin, bounded by
// limit.
func (s *Store) ListAuditLogsByActor(ctx context.Context, adminID int64, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM audit_logs WHERE admin_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		adminID, limit); err != nil {
		return nil, translate(err, "list audit logs by actor")
	}
	return entries, nil
}

// CountAuditLogs returns the total number of entries.
func (s *Store) CountAuditLogs(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM audit_logs"); err != nil {
		return 0, translate(err, "count audit logs")
	}
	return count, nil
}
