package model

import "time"

// AuditLog is one immutable record of a mutating admin action. Entries are
// append-only: the system never updates or deletes them.
type AuditLog struct {
	ID           int64     `json:"id" db:"id"`
	AdminID      int64     `json:"admin_id" db:"admin_id"`
	AdminEmail   string    `json:"admin_email" db:"admin_email"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   *int64    `json:"resource_id,omitempty" db:"resource_id"`
	Details      *string   `json:"details,omitempty" db:"details"` // JSON payload
	IPAddress    *string   `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent    *string   `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
