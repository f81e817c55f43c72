package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"go.uber.org/zap"
)

const testKey = "test-session-key-must-be-32-chars-long"

func newTestSessionManager(t *testing.T, dir string) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "test-session", "", dir, 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

type stubFetcher map[string]*auth.SessionUser

func (f stubFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser {
	return f[id]
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t, "")

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/members/list", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t, "")

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t, "")

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestRequireRole_WrongRole_RedirectsToForbidden(t *testing.T) {
	sm := newTestSessionManager(t, "")

	handler := sm.RequireRole("organiser")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/members/search", nil)
	req.Header.Set("Accept", "text/html")
	req = withTestUser(req, "member")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("expected redirect to /forbidden, got %q", loc)
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t, "")

	handler := sm.RequireRole("Member", "delegate")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/", nil), "DELEGATE")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)
	if ok || user != nil {
		t.Error("expected no user in context")
	}
}

// signInCookie signs in identityID and returns the resulting cookie.
func signInCookie(t *testing.T, sm *auth.SessionManager, identityID, activityID string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, req, sm.Session(req), identityID, activityID); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	return cookies[0]
}

func TestLoadSessionUser_RoundTrip(t *testing.T) {
	for _, dir := range []string{"", t.TempDir()} {
		sm := newTestSessionManager(t, dir)
		sm.SetUserFetcher(stubFetcher{
			"id-555": {ID: "id-555", Name: "Admin User", Role: "admin"},
		})
		cookie := signInCookie(t, sm, "id-555", "act-1")

		var got *auth.SessionUser
		handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = auth.CurrentUser(r)
			if id := auth.ActivitySessionID(sm.Session(r)); id != "act-1" {
				t.Errorf("activity session id = %q, want act-1", id)
			}
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got == nil || got.Role != "admin" {
			t.Fatalf("expected admin user in context (dir=%q), got %+v", dir, got)
		}
	}
}

func TestLoadSessionUser_MissingIdentity_SignedOut(t *testing.T) {
	sm := newTestSessionManager(t, "")
	sm.SetUserFetcher(stubFetcher{})
	cookie := signInCookie(t, sm, "gone", "")

	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user when identity is missing")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestSignOut_ExpiresCookieAndClearsValues(t *testing.T) {
	sm := newTestSessionManager(t, t.TempDir())
	cookie := signInCookie(t, sm, "id-1", "act-1")

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}

	// The old cookie no longer resolves to a signed-in session.
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.AddCookie(cookie)
	if id := auth.IdentityID(sm.Session(req2)); id != "" {
		t.Errorf("expected no identity after sign out, got %q", id)
	}
}

func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    "7f6c2d8e-2b1a-4c1e-9d9a-000000000001",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	})
}

func TestReload_ServerSideSeesConcurrentSave(t *testing.T) {
	sm := newTestSessionManager(t, t.TempDir())
	if !sm.ServerSide() {
		t.Fatal("expected server-side store")
	}

	// Establish a stored session and capture its cookie.
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	sess := sm.Session(req)
	sess.Values["n"] = 1
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	cookies := rec.Result().Cookies()

	reqA := httptest.NewRequest("POST", "/a", nil)
	reqB := httptest.NewRequest("POST", "/b", nil)
	for _, c := range cookies {
		reqA.AddCookie(c)
		reqB.AddCookie(c)
	}

	a := sm.Session(reqA)
	b := sm.Session(reqB)
	b.Values["n"] = 2
	if err := b.Save(reqB, httptest.NewRecorder()); err != nil {
		t.Fatalf("save b: %v", err)
	}

	if a.Values["n"] != 1 {
		t.Fatalf("cached session should be unchanged, got %v", a.Values["n"])
	}
	fresh, err := sm.Reload(reqA)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if fresh.Values["n"] != 2 {
		t.Errorf("Reload saw %v, want 2", fresh.Values["n"])
	}
}

func TestReload_CookieStoreReturnsRequestSession(t *testing.T) {
	sm := newTestSessionManager(t, "")
	req := httptest.NewRequest("GET", "/", nil)

	sess := sm.Session(req)
	sess.Values["n"] = 5
	again, err := sm.Reload(req)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if again.Values["n"] != 5 {
		t.Errorf("expected the request's own session, got %v", again.Values)
	}
}
