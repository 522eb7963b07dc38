package auth

import (
	"net/http"
	"strings"
	"time"
)

// Session cookie names. Admin and user sessions ride in separate cookies so
// the two identity universes never share a credential.
const (
	AdminSessionCookie = "wojp_admin_session"
	UserSessionCookie  = "wojp_session"
)

// SessionCookieMaxAge is the browser lifetime of a session cookie, matching
// the token TTL.
const SessionCookieMaxAge = int(7 * 24 * time.Hour / time.Second)

// CookieOptions are the security attributes applied to session cookies.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// OptionsFor decides cookie attributes from the request and deployment
// environment. Secure requires the effective protocol to be https, either
// directly or via X-Forwarded-Proto from a fronting proxy. Outside
// production Secure is forced off so plaintext local HTTP works, and
// SameSite stays Lax: Lax without Secure is accepted by browsers where
// None without Secure is not.
func OptionsFor(r *http.Request, production bool) CookieOptions {
	secure := r.TLS != nil ||
		strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	if !production {
		secure = false
	}
	return CookieOptions{
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// WriteSessionCookie emits a Set-Cookie header for a session token.
// maxAge -1 is the deletion idiom used by logout: the browser expires the
// cookie immediately.
func WriteSessionCookie(w http.ResponseWriter, name, value string, opts CookieOptions, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ReadSessionCookie returns the named cookie's value, or "" when the cookie
// is absent. A missing cookie is not an error.
func ReadSessionCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
