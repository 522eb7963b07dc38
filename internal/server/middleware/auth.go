package middleware

import (
	"context"
	"net/http"

	"github.com/wojp/backoffice/internal/auth"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/service"
)

type contextKeyAuth string

const (
	adminKey contextKeyAuth = "session_admin"
	userKey  contextKeyAuth = "session_user"
)

// AdminSession resolves the admin session cookie on every request: extract
// token, verify, re-load the live admin row, check it is active. Any failure
// collapses to a single 401; callers cannot tell a missing cookie from a
// bad or stale token. The middleware attaches the admin to the context and
// never mutates storage.
func AdminSession(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ReadSessionCookie(r, auth.AdminSessionCookie)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Authentication required")
				return
			}

			admin, err := authSvc.ResolveAdminSession(r.Context(), token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperAdmin enforces the super_admin role. It must run after
// AdminSession in the chain.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := GetAdmin(r.Context())
			if admin == nil || admin.Role != model.RoleSuperAdmin {
				writeAuthError(w, http.StatusForbidden, model.StatusForbidden, "Super admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserSession resolves the end-user session cookie. Admin cookies and
// admin-kind tokens do not pass here: the user universe has its own cookie
// name and token kind.
func UserSession(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ReadSessionCookie(r, auth.UserSessionCookie)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Authentication required")
				return
			}

			user, err := authSvc.ResolveUserSession(r.Context(), token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin extracts the authenticated admin from the context. Returns nil
// for unauthenticated requests.
func GetAdmin(ctx context.Context) *model.Admin {
	if a, ok := ctx.Value(adminKey).(*model.Admin); ok {
		return a
	}
	return nil
}

// GetUser extracts the authenticated end-user from the context. Returns nil
// for unauthenticated requests.
func GetUser(ctx context.Context) *model.User {
	if u, ok := ctx.Value(userKey).(*model.User); ok {
		return u
	}
	return nil
}

// WithAdmin returns a context carrying the given admin. Used by tests to
// exercise role gates without a full session round trip.
func WithAdmin(ctx context.Context, admin *model.Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func writeAuthError(w http.ResponseWriter, code int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Hand-rolled JSON avoids an import cycle with the handler package.
	w.Write([]byte(`{"error":{"code":` + itoa(code) + `,"status":"` + status + `","message":"` + message + `"}}`))
}

func itoa(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "401"
	case http.StatusForbidden:
		return "403"
	default:
		return "500"
	}
}
