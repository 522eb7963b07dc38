package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// CreateAdmin inserts a new admin account. The ID, CreatedAt, and UpdatedAt
// fields are populated after a successful insert. Returns ErrDuplicate when
// the email is already taken.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const q = `INSERT INTO admins
		(email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES
		(:email, :password_hash, :name, :role, :is_active, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, q, admin)
	if err != nil {
		return translate(err, "insert admin")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get admin id")
	}
	admin.ID = id
	return nil
}

// GetAdminByEmail returns an admin by email address.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE email = ?", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get admin by email")
	}
	return &admin, nil
}

// GetAdminByID returns an admin by primary key. Every protected request
// resolves the session subject through this lookup so deactivation takes
// effect immediately, even for unexpired tokens.
func (s *Store) GetAdminByID(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get admin by id")
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by email.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admins ORDER BY email"); err != nil {
		return nil, translate(err, "list admins")
	}
	return admins, nil
}

// UpdateAdminLastSignedIn stamps the login time for an admin.
func (s *Store) UpdateAdminLastSignedIn(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"UPDATE admins SET last_signed_in = ?, updated_at = ? WHERE id = ?", now, now, id)
	if err != nil {
		return translate(err, "update admin last signed in")
	}
	return rowsAffected(result, "update admin last signed in")
}

// UpdateAdminEmail changes an admin's email address. Returns ErrDuplicate if
// another admin already uses the new address.
func (s *Store) UpdateAdminEmail(ctx context.Context, id int64, email string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE admins SET email = ?, updated_at = ? WHERE id = ?",
		email, time.Now().UTC(), id)
	if err != nil {
		return translate(err, "update admin email")
	}
	return rowsAffected(result, "update admin email")
}

// UpdateAdminPassword replaces an admin's password hash.
func (s *Store) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return translate(err, "update admin password")
	}
	return rowsAffected(result, "update admin password")
}

// SetAdminActive toggles an account without deleting it. Deactivated admins
// fail session resolution on their next request.
func (s *Store) SetAdminActive(ctx context.Context, id int64, active bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?",
		active, time.Now().UTC(), id)
	if err != nil {
		return translate(err, "set admin active")
	}
	return rowsAffected(result, "set admin active")
}

// HasAnyAdmin reports whether at least one admin account exists. Used for
// first-run detection at startup.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins"); err != nil {
		return false, translate(err, "count admins")
	}
	return count > 0, nil
}

func rowsAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return translate(err, op)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
