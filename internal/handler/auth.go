package handler

import (
	"net/http"
	"strings"

	"github.com/wojp/backoffice/internal/auth"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/service"
)

// AuthHandler serves the admin session lifecycle: login, logout, me, and the
// self-service email/password changes, plus super-admin provisioning.
type AuthHandler struct {
	authSvc    *service.AuthService
	production bool
}

// NewAuthHandler creates an AuthHandler. production controls the Secure
// cookie flag.
func NewAuthHandler(authSvc *service.AuthService, production bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, production: production}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool               `json:"success"`
	Admin   model.AdminSummary `json:"admin"`
}

// Login authenticates an admin and sets the session cookie.
// POST /api/v1/admin/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "A valid email address is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Password is required")
		return
	}

	admin, token, err := h.authSvc.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	opts := auth.OptionsFor(r, h.production)
	maxAge := int(h.authSvc.AdminSessionTTL().Seconds())
	auth.WriteSessionCookie(w, auth.AdminSessionCookie, token, opts, maxAge)

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Admin: admin.Summary()})
}

// Logout clears the session cookie. Tokens are stateless so there is nothing
// to revoke server-side; the cookie deletion is the logout.
// POST /api/v1/admin/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	opts := auth.OptionsFor(r, h.production)
	auth.WriteSessionCookie(w, auth.AdminSessionCookie, "", opts, -1)
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Me returns the caller's admin summary, or null for anonymous callers.
// This endpoint is deliberately public: the UI polls it to decide whether to
// show the login screen.
// GET /api/v1/admin/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := auth.ReadSessionCookie(r, auth.AdminSessionCookie)
	if token == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	admin, err := h.authSvc.ResolveAdminSession(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, admin.Summary())
}

type updateEmailRequest struct {
	NewEmail        string `json:"new_email"`
	CurrentPassword string `json:"current_password"`
}

// UpdateEmail changes the caller's email after password re-confirmation.
// PUT /api/v1/admin/auth/email
func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())

	var req updateEmailRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}

	req.NewEmail = strings.TrimSpace(req.NewEmail)
	if !validEmail(req.NewEmail) {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "A valid email address is required")
		return
	}

	if err := h.authSvc.UpdateAdminEmail(r.Context(), admin, req.NewEmail, req.CurrentPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdatePassword changes the caller's password.
// PUT /api/v1/admin/auth/password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())

	var req updatePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authSvc.UpdateAdminPassword(r.Context(), admin,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateAdmin provisions a new admin account. Super admin only.
// POST /api/v1/admin/admins
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "A valid email address is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Name is required")
		return
	}
	if req.Role != "" && req.Role != model.RoleAdmin && req.Role != model.RoleSuperAdmin {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Role must be admin or super_admin")
		return
	}

	if _, err := h.authSvc.CreateAdmin(r.Context(), req.Email, req.Password, req.Name, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// validEmail is a deliberately shallow shape check; real validation is the
// confirmation email's job, which is out of scope here.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
