package flow_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"go.uber.org/zap"
)

func TestRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	flow.Redirect(rec, httptest.NewRequest("POST", "/members/select", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/members/select", nil)
	req.Header.Set("HX-Request", "true")
	flow.Redirect(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("HX-Redirect") != "/" {
		t.Errorf("htmx: got %d %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestUpdateUI_PersistsStateAndNotices(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "s", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	flow.UpdateUI(rec, httptest.NewRequest("POST", "/issues/open", nil), sm, zap.NewNop(),
		func(ui *viewstate.UIState) { ui.OpenReport() },
		notify.Done("t", "m"))

	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	sess := sm.Session(next)
	if !viewstate.Load(sess).ReportOpen {
		t.Error("expected ReportOpen to persist")
	}
	if got := notify.Pop(sess); len(got) != 1 || got[0].Message != "m" {
		t.Errorf("notices = %+v", got)
	}
}
