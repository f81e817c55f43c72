// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/unionhub/internal/app/features/errors"
	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/ratelimit"
	"github.com/dalemusser/unionhub/internal/app/system/signin"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Authenticator is the login half of signin.Service.
type Authenticator interface {
	Login(ctx context.Context, email, password, ip, userAgent string) (*models.Identity, string, error)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Signin     Authenticator
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	Render     viewdata.RenderFunc
}

func NewHandler(sessionMgr *auth.SessionManager, svc Authenticator, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Signin:     svc,
		Limiter:    limiter,
		ErrLog:     errLog,
		Render:     templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type formData struct {
	viewdata.BaseVM
	ReturnURL string
}

// ServeScreen renders the login form as the root page's Login view.
func (h *Handler) ServeScreen(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Sign in"
	h.Render(w, r, "login_form", formData{BaseVM: base, ReturnURL: query.Get(r, "return")})
}

// ServeForm handles GET /login. A signed-in user goes straight home.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess := h.SessionMgr.Session(r)
	base := viewdata.NewBaseVM(r, "Sign in")
	base.Notices = notify.Pop(sess)
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("save session after popping notices", zap.Error(err))
	}
	h.ServeScreen(w, r, viewstate.View{Kind: viewstate.KindLogin}, viewstate.UIState{}, base)
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ret := urlutil.SafeReturn(r.PostFormValue("return"), "", "/")

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
			flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleLogin, msg, nil))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ident, activityID, err := h.Signin.Login(ctx, email, password, ratelimit.ClientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, signin.ErrInvalidCredentials):
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleLogin, notify.MsgLoginFailed, nil))
		return
	case errors.Is(err, signin.ErrUnprovisioned):
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleLogin, notify.MsgLoginNoRecord, nil))
		return
	case err != nil:
		h.Log.Error("login failed", zap.Error(err))
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleLogin, notify.MsgLoginUnavailable, nil))
		return
	}

	if h.Limiter != nil {
		h.Limiter.Succeeded(email)
	}

	sess := h.SessionMgr.Session(r)
	viewstate.Clear(sess)
	notify.Push(sess, notify.Done(notify.TitleLogin, notify.MsgLoginSuccess))
	if err := h.SessionMgr.SignIn(w, r, sess, ident.ID, activityID); err != nil {
		h.ErrLog.LogServerError(w, r, "save session on login", err, "Unable to sign in right now.", "/login")
		return
	}

	h.Log.Info("member signed in", zap.String("identity_id", ident.ID), zap.String("role", ident.Role))
	flow.RedirectTo(w, r, ret)
}
