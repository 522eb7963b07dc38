package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/wojp/backoffice/internal/auth"
	"github.com/wojp/backoffice/internal/config"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

// stateCookie carries the CSRF state between the login redirect and the
// provider callback. Short-lived, Lax, HttpOnly.
const (
	stateCookie     = "wojp_oauth_state"
	stateCookieTTL  = 600 // seconds
	loginMethodName = "oauth"
)

// userinfo is the subset of the provider's userinfo response the flow needs.
// Providers differ on the subject key; "sub" (OIDC) and "openId" both work.
type userinfo struct {
	Sub    string  `json:"sub"`
	OpenID string  `json:"openId"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
}

func (u userinfo) subject() string {
	if u.Sub != "" {
		return u.Sub
	}
	return u.OpenID
}

// OAuthHandler implements the thin end-user login flow: redirect to the
// provider, exchange the code, fetch the profile, upsert the user, and set
// the user session cookie. Everything beyond that (consent, scopes) is the
// provider's concern.
type OAuthHandler struct {
	oauth      *oauth2.Config
	userinfo   string
	store      *store.Store
	authSvc    *service.AuthService
	production bool
}

// NewOAuthHandler creates an OAuthHandler from the oauth config section.
// Returns nil when the provider is not configured; the caller skips mounting
// the routes in that case.
func NewOAuthHandler(cfg config.OAuthConfig, st *store.Store, authSvc *service.AuthService, production bool) *OAuthHandler {
	if cfg.ClientID == "" || cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.UserinfoURL == "" {
		return nil
	}
	return &OAuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      []string{"openid", "profile", "email"},
		},
		userinfo:   cfg.UserinfoURL,
		store:      st,
		authSvc:    authSvc,
		production: production,
	}
}

// Login starts the flow: set the state cookie and redirect to the provider.
// GET /api/oauth/login
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.StatusInternal, "Failed to start login")
		return
	}

	opts := auth.OptionsFor(r, h.production)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the flow: check state, exchange the code, fetch the
// profile, upsert the user, and set the session cookie.
// GET /api/oauth/callback?code=...&state=...
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid login state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Login failed")
		return
	}

	info, err := h.fetchUserinfo(r, token)
	if err != nil || info.subject() == "" {
		writeError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Login failed")
		return
	}

	method := loginMethodName
	user := &model.User{
		OpenID:      info.subject(),
		Name:        info.Name,
		Email:       info.Email,
		LoginMethod: &method,
	}
	if err := h.store.UpsertUser(r.Context(), user); err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.authSvc.IssueUserSession(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.StatusInternal, "Failed to establish session")
		return
	}

	opts := auth.OptionsFor(r, h.production)
	auth.WriteSessionCookie(w, auth.UserSessionCookie, session, opts, auth.SessionCookieMaxAge)

	// Clear the state cookie; it has done its job.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	http.Redirect(w, r, "/", http.StatusFound)
}

// Me returns the authenticated end-user's profile.
// GET /api/v1/me
func (h *OAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// Logout clears the user session cookie.
// POST /api/v1/logout
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	opts := auth.OptionsFor(r, h.production)
	auth.WriteSessionCookie(w, auth.UserSessionCookie, "", opts, -1)
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

func (h *OAuthHandler) fetchUserinfo(r *http.Request, token *oauth2.Token) (*userinfo, error) {
	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get(h.userinfo)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
