package model

import "time"

// User is an end-user identity established through the public OAuth login
// flow. Users are a separate identity universe from admins: they carry their
// own cookie, their own token kind, and never grant access to the panel.
type User struct {
	ID           int64     `json:"id" db:"id"`
	OpenID       string    `json:"open_id" db:"open_id"`
	Name         *string   `json:"name,omitempty" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	LoginMethod  *string   `json:"login_method,omitempty" db:"login_method"`
	Role         string    `json:"role" db:"role"`
	LastSignedIn time.Time `json:"last_signed_in" db:"last_signed_in"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// User roles. "admin" here grants elevated access to user-facing features
// only; it has no relationship to the Admin table.
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)
