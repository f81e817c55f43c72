// Package flow holds the post/redirect/get helpers shared by screen
// actions. An action mutates session state, saves it and sends the browser
// back to the root page, which selects and renders the screen.
package flow

import (
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Root is where every action lands.
const Root = "/"

// Redirect sends the browser to the root page. HTMX requests get
// HX-Redirect so the whole page is replaced.
func Redirect(w http.ResponseWriter, r *http.Request) {
	RedirectTo(w, r, Root)
}

// RedirectTo is Redirect with an explicit target.
func RedirectTo(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Finish saves sess and redirects to the root page. A failed save is
// logged; the redirect still happens.
func Finish(w http.ResponseWriter, r *http.Request, sess *sessions.Session, logger *zap.Logger) {
	if err := sess.Save(r, w); err != nil {
		logger.Error("save session", zap.String("path", r.URL.Path), zap.Error(err))
	}
	Redirect(w, r)
}

// UpdateUI applies fn to the session's UI state, queues notices and
// finishes the request.
func UpdateUI(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, logger *zap.Logger, fn func(*viewstate.UIState), notices ...notify.Notice) {
	sess := sm.Session(r)
	if fn != nil {
		ui := viewstate.Load(sess)
		fn(&ui)
		viewstate.Store(sess, ui)
	}
	for _, n := range notices {
		notify.Push(sess, n)
	}
	Finish(w, r, sess, logger)
}

// Notify queues n and finishes the request without touching UI state.
func Notify(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, logger *zap.Logger, n notify.Notice) {
	UpdateUI(w, r, sm, logger, nil, n)
}
