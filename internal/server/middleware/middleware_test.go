package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wojp/backoffice/internal/auth"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

func newAuthEnv(t *testing.T) (*service.AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return service.NewAuthService(st, "mw-test-secret", time.Hour, time.Hour), st
}

func okHandler(t *testing.T, sawAdmin **model.Admin) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawAdmin != nil {
			*sawAdmin = GetAdmin(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var captured string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	// Generated when absent.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if captured == "" {
		t.Error("expected a generated request ID")
	}
	if rr.Header().Get("X-Request-ID") != captured {
		t.Error("request ID should be echoed on the response")
	}

	// Honored when supplied.
	rr = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "upstream-id")
	h.ServeHTTP(rr, r)
	if captured != "upstream-id" {
		t.Errorf("got request ID %q, want upstream-id", captured)
	}
}

func TestAdminSessionMiddleware(t *testing.T) {
	authSvc, _ := newAuthEnv(t)
	ctx := context.Background()

	created, err := authSvc.CreateAdmin(ctx, "mw@example.com", "long-enough", "MW", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	_, token, err := authSvc.LoginAdmin(ctx, "mw@example.com", "long-enough")
	if err != nil {
		t.Fatalf("LoginAdmin: %v", err)
	}

	var sawAdmin *model.Admin
	h := AdminSession(authSvc)(okHandler(t, &sawAdmin))

	// No cookie.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no cookie: status %d, want 401", rr.Code)
	}
	assertErrorEnvelope(t, rr, model.StatusUnauthorized)

	// Garbage cookie.
	rr = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.AdminSessionCookie, Value: "garbage"})
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", rr.Code)
	}

	// Valid cookie.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.AdminSessionCookie, Value: token})
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: status %d, want 200", rr.Code)
	}
	if sawAdmin == nil || sawAdmin.ID != created.ID {
		t.Errorf("admin not attached to context: %+v", sawAdmin)
	}
}

func TestAdminSessionRejectsUserCookie(t *testing.T) {
	authSvc, st := newAuthEnv(t)
	ctx := context.Background()

	user := &model.User{OpenID: "oidc|9"}
	if err := st.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	userToken, err := authSvc.IssueUserSession(user)
	if err != nil {
		t.Fatalf("IssueUserSession: %v", err)
	}

	h := AdminSession(authSvc)(okHandler(t, nil))

	// A user-kind token planted in the admin cookie must not pass.
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.AdminSessionCookie, Value: userToken})
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("user token in admin cookie: status %d, want 401", rr.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	h := RequireSuperAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Regular admin.
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(WithAdmin(r.Context(), &model.Admin{ID: 1, Role: model.RoleAdmin}))
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusForbidden {
		t.Errorf("regular admin: status %d, want 403", rr.Code)
	}
	assertErrorEnvelope(t, rr, model.StatusForbidden)

	// Super admin.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(WithAdmin(r.Context(), &model.Admin{ID: 1, Role: model.RoleSuperAdmin}))
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Errorf("super admin: status %d, want 200", rr.Code)
	}

	// No session at all.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusForbidden {
		t.Errorf("no session: status %d, want 403", rr.Code)
	}
}

func TestUserSessionMiddleware(t *testing.T) {
	authSvc, st := newAuthEnv(t)
	ctx := context.Background()

	user := &model.User{OpenID: "oidc|77"}
	if err := st.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	token, err := authSvc.IssueUserSession(user)
	if err != nil {
		t.Fatalf("IssueUserSession: %v", err)
	}

	var sawUser *model.User
	h := UserSession(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUser = GetUser(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no cookie: status %d, want 401", rr.Code)
	}

	rr = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: auth.UserSessionCookie, Value: token})
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: status %d, want 200", rr.Code)
	}
	if sawUser == nil || sawUser.ID != user.ID {
		t.Errorf("user not attached to context: %+v", sawUser)
	}
}

func TestLoginRateLimit(t *testing.T) {
	h := LoginRateLimit(3)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "198.51.100.1:1234"
		h.ServeHTTP(rr, r)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "198.51.100.1:1234"
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("over limit: status %d, want 429", rr.Code)
	}

	// A different IP is unaffected.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "198.51.100.2:1234"
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Errorf("other ip: status %d, want 200", rr.Code)
	}
}

func assertErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder, wantStatus string) {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a JSON error envelope: %v (%s)", err, rr.Body.String())
	}
	if resp.Error.Status != wantStatus {
		t.Errorf("got status tag %q, want %q", resp.Error.Status, wantStatus)
	}
	if resp.Error.Code != rr.Code {
		t.Errorf("envelope code %d does not match HTTP status %d", resp.Error.Code, rr.Code)
	}
}
