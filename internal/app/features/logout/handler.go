// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Terminator ends the backend activity session.
type Terminator interface {
	Logout(ctx context.Context, activityID string) error
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Signin     Terminator
}

func NewHandler(sessionMgr *auth.SessionManager, svc Terminator, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Signin:     svc,
	}
}

// ServeLogout handles GET and POST /logout.
//
// Backend termination failures are logged only. The local session is
// always dropped: identity, UI state and pending notices go with it and
// the cookie is expired.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		h.Log.Warn("session decode failed during logout", zap.Error(err))
	}

	if sess != nil && h.Signin != nil {
		identityID := auth.IdentityID(sess)
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		if err := h.Signin.Logout(ctx, auth.ActivitySessionID(sess)); err != nil {
			h.Log.Warn("backend logout failed", zap.String("identity_id", identityID), zap.Error(err))
		}
		cancel()
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	flow.Redirect(w, r)
}
