package logout_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/features/logout"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"go.uber.org/zap"
)

type fakeTerminator struct {
	got []string
	err error
}

func (f *fakeTerminator) Logout(_ context.Context, id string) error {
	f.got = append(f.got, id)
	return f.err
}

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", t.TempDir(), 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// signedInRequest returns a request carrying a session with an identity,
// UI state and a pending notice.
func signedInRequest(t *testing.T, sm *auth.SessionManager, method string) *http.Request {
	t.Helper()
	setup := httptest.NewRequest("GET", "/setup", nil)
	rec := httptest.NewRecorder()
	sess := sm.Session(setup)
	viewstate.Store(sess, viewstate.UIState{SelectedID: "rec-1", ReportOpen: true})
	notify.Push(sess, notify.Done("t", "m"))
	if err := sm.SignIn(rec, setup, sess, "id-1", "act-1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	req := httptest.NewRequest(method, "/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestServeLogout_ClosesBackendSessionAndClearsState(t *testing.T) {
	for _, method := range []string{"GET", "POST"} {
		t.Run(method, func(t *testing.T) {
			sm := newSessionManager(t)
			term := &fakeTerminator{}
			h := logout.NewHandler(sm, term, zap.NewNop())

			req := signedInRequest(t, sm, method)
			rec := httptest.NewRecorder()
			h.ServeLogout(rec, req)

			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
				t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
			}
			if len(term.got) != 1 || term.got[0] != "act-1" {
				t.Errorf("backend logout calls = %v", term.got)
			}

			var expired bool
			for _, c := range rec.Result().Cookies() {
				if c.Name == "test-session" && c.MaxAge < 0 {
					expired = true
				}
			}
			if !expired {
				t.Error("expected session cookie to be expired")
			}

			sess, _ := sm.Reload(req)
			if auth.IdentityID(sess) != "" {
				t.Error("identity should be cleared")
			}
			if ui := viewstate.Load(sess); ui.SelectedID != "" || ui.ReportOpen {
				t.Errorf("UI state should be reset, got %+v", ui)
			}
			if n := notify.Pop(sess); len(n) != 0 {
				t.Errorf("notices should be cleared, got %+v", n)
			}
		})
	}
}

func TestServeLogout_BackendFailureStillSignsOut(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, &fakeTerminator{err: errors.New("network down")}, zap.NewNop())

	req := signedInRequest(t, sm, "POST")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d", rec.Code)
	}
	sess, _ := sm.Reload(req)
	if auth.IdentityID(sess) != "" {
		t.Error("local session must be cleared even when the backend fails")
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, &fakeTerminator{}, zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Header().Get("HX-Redirect") != "/" || rec.Code != http.StatusOK {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}
