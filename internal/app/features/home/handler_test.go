package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/features/home"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

type recorder struct {
	screen  string
	view    viewstate.View
	notices []notify.Notice
}

func (rc *recorder) screenFn(name string) home.ScreenFunc {
	return func(_ http.ResponseWriter, _ *http.Request, v viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
		rc.screen, rc.view, rc.notices = name, v, base.Notices
	}
}

func newHandler(t *testing.T) (*home.Handler, *auth.SessionManager, *recorder) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", t.TempDir(), time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	rc := &recorder{}
	screens := home.Screens{
		Login:         rc.screenFn("login"),
		Detail:        rc.screenFn("detail"),
		Admin:         rc.screenFn("admin"),
		Organiser:     rc.screenFn("organiser"),
		MemberHome:    rc.screenFn("member_home"),
		MemberReport:  rc.screenFn("member_report"),
		MemberProfile: rc.screenFn("member_profile"),
		Error:         rc.screenFn("error"),
	}
	return home.NewHandler(sm, screens, logger), sm, rc
}

// seed stores ui and notices in a fresh server-side session and returns
// its cookies.
func seed(t *testing.T, sm *auth.SessionManager, ui viewstate.UIState, notices ...notify.Notice) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	sess := sm.Session(req)
	viewstate.Store(sess, ui)
	for _, n := range notices {
		notify.Push(sess, n)
	}
	rec := httptest.NewRecorder()
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return rec.Result().Cookies()
}

func get(h *home.Handler, cookies []*http.Cookie, u *auth.SessionUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if u != nil {
		req = auth.WithTestUser(req, u)
	}
	rec := httptest.NewRecorder()
	h.ServeRoot(rec, req)
	return rec
}

func TestServeRoot_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		role string
		ui   viewstate.UIState
		want string
	}{
		{"signed out", "", viewstate.UIState{SelectedID: "x"}, "login"},
		{"admin", models.RoleAdmin, viewstate.UIState{}, "admin"},
		{"admin detail", models.RoleAdmin, viewstate.UIState{SelectedID: "x"}, "detail"},
		{"organiser", models.RoleOrganiser, viewstate.UIState{OrganiserScreen: viewstate.OrganiserMessage}, "organiser"},
		{"member", models.RoleMember, viewstate.UIState{}, "member_home"},
		{"delegate report", models.RoleDelegate, viewstate.UIState{ReportOpen: true}, "member_report"},
		{"member profile", models.RoleMember, viewstate.UIState{ProfileEditing: true}, "member_profile"},
		{"unknown role", "steward", viewstate.UIState{}, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sm, rc := newHandler(t)
			cookies := seed(t, sm, tt.ui)
			var u *auth.SessionUser
			if tt.role != "" {
				u = &auth.SessionUser{ID: "u1", Name: "Test", Role: tt.role}
			}
			rec := get(h, cookies, u)
			if rc.screen != tt.want {
				t.Errorf("screen = %q, want %q", rc.screen, tt.want)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q", cc)
			}
		})
	}
}

func TestServeRoot_NoticesShownOnce(t *testing.T) {
	h, sm, rc := newHandler(t)
	cookies := seed(t, sm, viewstate.UIState{}, notify.Done(notify.TitleLogin, notify.MsgLoginSuccess))
	u := &auth.SessionUser{ID: "u1", Role: models.RoleMember}

	get(h, cookies, u)
	if len(rc.notices) != 1 || rc.notices[0].Message != notify.MsgLoginSuccess {
		t.Fatalf("first render notices = %+v", rc.notices)
	}
	get(h, cookies, u)
	if len(rc.notices) != 0 {
		t.Errorf("second render notices = %+v, want none", rc.notices)
	}
}

func TestServeRoot_MissingScreenFallsBackToError(t *testing.T) {
	h, sm, rc := newHandler(t)
	h.Screens.Admin = nil
	get(h, seed(t, sm, viewstate.UIState{}), &auth.SessionUser{ID: "a", Role: models.RoleAdmin})
	if rc.screen != "error" {
		t.Errorf("screen = %q, want error", rc.screen)
	}
}
