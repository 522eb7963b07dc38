// Package service holds the request-scoped business logic between the HTTP
// handlers and the store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/auth"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/store"
)

// Errors surfaced to handlers. Credential failures are uniform: the service
// never distinguishes "no such account" from "wrong password" or "bad token".
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
)

// MinPasswordLength applies to new and changed admin passwords.
const MinPasswordLength = 8

// AuthService implements login, session resolution, and self-service account
// changes for both identity universes. The store is injected so tests can
// run against in-memory SQLite.
type AuthService struct {
	store       *store.Store
	adminTokens *auth.TokenCodec
	userTokens  *auth.TokenCodec
	adminTTL    time.Duration
	userTTL     time.Duration
}

// NewAuthService builds an AuthService. Both token codecs derive from the
// same secret but carry distinct kind tags, so their tokens never
// cross-verify.
func NewAuthService(st *store.Store, jwtSecret string, adminTTL, userTTL time.Duration) *AuthService {
	return &AuthService{
		store:       st,
		adminTokens: auth.NewTokenCodec(jwtSecret, auth.KindAdmin),
		userTokens:  auth.NewTokenCodec(jwtSecret, auth.KindUser),
		adminTTL:    adminTTL,
		userTTL:     userTTL,
	}
}

// AdminSessionTTL returns the configured admin session lifetime.
func (s *AuthService) AdminSessionTTL() time.Duration { return s.adminTTL }

// LoginAdmin verifies email + password and, on success, stamps the login
// time and returns the admin with a signed session token. All credential
// failures return ErrInvalidCredentials; store outages pass through as
// store.ErrUnavailable.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*model.Admin, string, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !admin.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, admin.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	// Best effort: a failed timestamp update must not block the login.
	_ = s.store.UpdateAdminLastSignedIn(ctx, admin.ID)

	token, err := s.adminTokens.Issue(admin.ID, admin.Email, s.adminTTL)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// ResolveAdminSession verifies an admin session token and re-loads the live
// admin row. The token is a capability derived from the row, never a second
// source of truth: a deactivated or deleted admin fails resolution
// immediately, unexpired token or not.
func (s *AuthService) ResolveAdminSession(ctx context.Context, token string) (*model.Admin, error) {
	claims, err := s.adminTokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdminByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// IssueUserSession signs a user session token after an OAuth login.
func (s *AuthService) IssueUserSession(user *model.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return s.userTokens.Issue(user.ID, email, s.userTTL)
}

// ResolveUserSession verifies a user session token against the live user
// row. Admin-kind tokens are rejected here by the codec's kind check.
func (s *AuthService) ResolveUserSession(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.userTokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// UpdateAdminEmail changes the caller's email after re-confirming their
// password. Returns ErrEmailTaken when another admin already uses the
// address.
func (s *AuthService) UpdateAdminEmail(ctx context.Context, admin *model.Admin, newEmail, currentPassword string) error {
	if !auth.VerifyPassword(currentPassword, admin.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := s.store.UpdateAdminEmail(ctx, admin.ID, newEmail); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// UpdateAdminPassword changes the caller's password. The current password
// must verify and the new password must match its confirmation and meet the
// minimum length.
func (s *AuthService) UpdateAdminPassword(ctx context.Context, admin *model.Admin, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !auth.VerifyPassword(currentPassword, admin.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, admin.ID, hash)
}

// CreateAdmin provisions a new admin account. Returns ErrEmailTaken for a
// duplicate email.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name, role string) (*model.Admin, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if role == "" {
		role = model.RoleAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}
