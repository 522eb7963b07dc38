package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// UpsertUser inserts or refreshes an OAuth user keyed by open_id. Profile
// fields from the provider overwrite stored values; last_signed_in is
// stamped on every call.
func (s *Store) UpsertUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.LastSignedIn = now
	user.UpdatedAt = now

	existing, err := s.GetUserByOpenID(ctx, user.OpenID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil {
		if user.Role == "" {
			user.Role = existing.Role
		}
		_, err := s.db.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, login_method = ?, role = ?,
				last_signed_in = ?, updated_at = ? WHERE open_id = ?`,
			user.Name, user.Email, user.LoginMethod, user.Role,
			now, now, user.OpenID)
		if err != nil {
			return translate(err, "update user")
		}
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		return nil
	}

	if user.Role == "" {
		user.Role = model.UserRoleUser
	}
	user.CreatedAt = now
	const q = `INSERT INTO users
		(open_id, name, email, login_method, role, last_signed_in, created_at, updated_at)
		VALUES
		(:open_id, :name, :email, :login_method, :role, :last_signed_in, :created_at, :updated_at)`
	result, err := s.db.NamedExecContext(ctx, q, user)
	if err != nil {
		return translate(err, "insert user")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get user id")
	}
	user.ID = id
	return nil
}

// GetUserByOpenID returns a user by provider subject identifier.
func (s *Store) GetUserByOpenID(ctx context.Context, openID string) (*model.User, error) {
	var user model.User
	if err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE open_id = ?", openID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get user by open id")
	}
	return &user, nil
}

// GetUserByID returns a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get user by id")
	}
	return &user, nil
}
