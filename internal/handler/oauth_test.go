package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wojp/backoffice/internal/config"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

// fakeProvider serves the token and userinfo endpoints of an OAuth provider.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Authorization"), "provider-token") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"provider|123","name":"Hanako","email":"hanako@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthEnv(t *testing.T) (*OAuthHandler, *store.Store) {
	t.Helper()
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	provider := fakeProvider(t)
	cfg := config.OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      provider.URL + "/authorize",
		TokenURL:     provider.URL + "/token",
		UserinfoURL:  provider.URL + "/userinfo",
		RedirectURL:  "http://localhost/api/oauth/callback",
	}
	authSvc := service.NewAuthService(st, "oauth-test-secret", time.Hour, time.Hour)
	h := NewOAuthHandler(cfg, st, authSvc, false)
	if h == nil {
		t.Fatal("NewOAuthHandler returned nil for a configured provider")
	}
	return h, st
}

func TestNewOAuthHandlerUnconfigured(t *testing.T) {
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	authSvc := service.NewAuthService(st, "s", time.Hour, time.Hour)

	if h := NewOAuthHandler(config.OAuthConfig{}, st, authSvc, false); h != nil {
		t.Error("expected nil handler when the provider is not configured")
	}
	if h := NewOAuthHandler(config.OAuthConfig{ClientID: "only-id"}, st, authSvc, false); h != nil {
		t.Error("expected nil handler for a partial provider config")
	}
}

func TestOAuthLoginRedirect(t *testing.T) {
	h, _ := newOAuthEnv(t)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodGet, "/api/oauth/login", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("status %d, want 302", rr.Code)
	}

	var state *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == stateCookie {
			state = c
		}
	}
	if state == nil || state.Value == "" {
		t.Fatal("state cookie not set")
	}
	if !state.HttpOnly {
		t.Error("state cookie must be HttpOnly")
	}

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}
	if loc.Query().Get("state") != state.Value {
		t.Error("redirect state does not match the cookie")
	}
	if loc.Query().Get("client_id") != "client-id" {
		t.Errorf("client_id = %q", loc.Query().Get("client_id"))
	}
}

func TestOAuthCallback(t *testing.T) {
	h, st := newOAuthEnv(t)

	// State mismatch is rejected before touching the provider.
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=abc&state=forged", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "genuine"})
	h.Callback(rr, r)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("forged state: status %d, want 400", rr.Code)
	}

	// Missing code.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/oauth/callback?state=genuine", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "genuine"})
	h.Callback(rr, r)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing code: status %d, want 400", rr.Code)
	}

	// Full flow.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=abc&state=genuine", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "genuine"})
	h.Callback(rr, r)
	if rr.Code != http.StatusFound {
		t.Fatalf("status %d, want 302 (body: %s)", rr.Code, rr.Body.String())
	}

	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "wojp_session" {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("user session cookie not set")
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	user, err := st.GetUserByOpenID(context.Background(), "provider|123")
	if err != nil {
		t.Fatalf("GetUserByOpenID: %v", err)
	}
	if user.Name == nil || *user.Name != "Hanako" {
		t.Errorf("user name = %v", user.Name)
	}
	if user.Email == nil || *user.Email != "hanako@example.com" {
		t.Errorf("user email = %v", user.Email)
	}
	if user.LoginMethod == nil || *user.LoginMethod != "oauth" {
		t.Errorf("login method = %v", user.LoginMethod)
	}

	// Logging in again reuses the same row.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/oauth/callback?code=abc&state=genuine", nil)
	r.AddCookie(&http.Cookie{Name: stateCookie, Value: "genuine"})
	h.Callback(rr, r)
	if rr.Code != http.StatusFound {
		t.Fatalf("second login: status %d, want 302", rr.Code)
	}
	again, err := st.GetUserByOpenID(context.Background(), "provider|123")
	if err != nil {
		t.Fatalf("GetUserByOpenID: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second login created user %d, first was %d", again.ID, user.ID)
	}
}
