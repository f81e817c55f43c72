// Package home serves the root page. Every screen in the app renders at
// "/": the handler reads the signed-in user and the UI state from the
// session, asks viewstate.Select which screen to show, and hands off to
// that screen's renderer.
package home

import (
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"go.uber.org/zap"
)

// ScreenFunc renders one screen for the view chosen by Select.
type ScreenFunc func(w http.ResponseWriter, r *http.Request, v viewstate.View, ui viewstate.UIState, base viewdata.BaseVM)

// Screens maps each view to its renderer. Error is used for any view
// without one.
type Screens struct {
	Login         ScreenFunc
	Detail        ScreenFunc
	Admin         ScreenFunc
	Organiser     ScreenFunc
	MemberHome    ScreenFunc
	MemberReport  ScreenFunc
	MemberProfile ScreenFunc
	Error         ScreenFunc
}

func (s Screens) pick(v viewstate.View) ScreenFunc {
	var fn ScreenFunc
	switch v.Kind {
	case viewstate.KindLogin:
		fn = s.Login
	case viewstate.KindDetail:
		fn = s.Detail
	case viewstate.KindAdminDashboard:
		fn = s.Admin
	case viewstate.KindOrganiserFlow:
		fn = s.Organiser
	case viewstate.KindMemberDashboard:
		switch v.Member {
		case viewstate.MemberReport:
			fn = s.MemberReport
		case viewstate.MemberProfile:
			fn = s.MemberProfile
		default:
			fn = s.MemberHome
		}
	}
	if fn == nil {
		fn = s.Error
	}
	return fn
}

// Handler holds dependencies needed to serve the root page.
type Handler struct {
	SessionMgr *auth.SessionManager
	Screens    Screens
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, screens Screens, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sm,
		Screens:    screens,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – root composer                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	sess := h.SessionMgr.Session(r)
	ui := viewstate.Load(sess)
	notices := notify.Pop(sess)
	if len(notices) > 0 {
		if err := sess.Save(r, w); err != nil {
			h.Log.Warn("save session after popping notices", zap.Error(err))
		}
	}

	u, _ := auth.CurrentUser(r)
	v := viewstate.Select(viewstate.State{User: u, UI: ui})

	base := viewdata.NewBaseVM(r, viewdata.SiteName)
	base.Notices = notices

	w.Header().Set("Cache-Control", "no-store")
	h.Log.Debug("render root", zap.Stringer("view", v.Kind))
	h.Screens.pick(v)(w, r, v, ui, base)
}
