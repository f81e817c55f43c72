package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey            = "is_authenticated"
	identityIDKey        = "identity_id"
	activitySessionIDKey = "activity_session_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in identity as seen by handlers.
type SessionUser struct {
	ID        string
	Name      string
	Email     string
	Role      string
	AvatarURL string
}

// UserFetcher loads fresh identity data for each request, so role and
// name changes apply without signing in again. It returns nil when the
// identity no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, identityID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// session. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the session store. The session holds the signed-in
// identity id, the activity session id, the UI state and pending
// notifications.
type SessionManager struct {
	store      sessions.Store
	opts       sessions.Options
	name       string
	serverSide bool
	fetcher    UserFetcher
	log        *zap.Logger
}

// NewSessionManager builds the session store.
//
// When dir is set, session values live server-side in dir and the cookie
// only carries the signed session id; search results can exceed what fits
// in a cookie, so this is the deployed configuration. With dir empty the
// values are kept in the cookie itself.
func NewSessionManager(sessionKey, name, domain, dir string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "unionhub-session"
	}

	opts := sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		// Mutations are POST-only; Lax keeps the cookie off cross-site posts.
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		fs := sessions.NewFilesystemStore(dir, []byte(sessionKey))
		fs.MaxLength(0)
		o := opts
		fs.Options = &o
		store = fs
	} else {
		cs := sessions.NewCookieStore([]byte(sessionKey))
		o := opts
		cs.Options = &o
		store = cs
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.Bool("server_side", dir != ""),
		zap.String("domain", domain))

	return &SessionManager{
		store:      store,
		opts:       opts,
		name:       name,
		serverSide: dir != "",
		log:        logger,
	}, nil
}

// SetUserFetcher installs the per-request identity loader.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// Name returns the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// GetSession returns the request's session. On a decode error (rotated
// key, tampered cookie) a fresh session is returned with the error, so
// callers can log and carry on.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Session is GetSession with decode errors logged and swallowed.
func (sm *SessionManager) Session(r *http.Request) *sessions.Session {
	sess, err := sm.GetSession(r)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// Reload reads the session again from the server-side store, so values
// saved by concurrent requests are visible. A cookie-only session cannot
// see other requests and the request's own session is returned.
func (sm *SessionManager) Reload(r *http.Request) (*sessions.Session, error) {
	if !sm.serverSide {
		return sm.GetSession(r)
	}
	return sm.store.New(r, sm.name)
}

// ServerSide reports whether session values are stored outside the cookie.
func (sm *SessionManager) ServerSide() bool { return sm.serverSide }

// SignIn marks the session authenticated for identityID and records the
// backend activity session id.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, sess *sessions.Session, identityID, activitySessionID string) error {
	sess.Values[isAuthKey] = true
	sess.Values[identityIDKey] = identityID
	if activitySessionID != "" {
		sess.Values[activitySessionIDKey] = activitySessionID
	} else {
		delete(sess.Values, activitySessionIDKey)
	}
	return sess.Save(r, w)
}

// SignOut drops every value in the session and expires the cookie. For
// the server-side store this also deletes the stored session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := sm.Session(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	o := sm.opts
	o.MaxAge = -1
	sess.Options = &o
	return sess.Save(r, w)
}

// IdentityID returns the identity id stored in the session, if any.
func IdentityID(sess *sessions.Session) string {
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return ""
	}
	return getString(sess, identityIDKey)
}

// ActivitySessionID returns the backend activity session id, if any.
func ActivitySessionID(sess *sessions.Session) string {
	return getString(sess, activitySessionIDKey)
}

// LoadSessionUser injects the user into context if they are signed in and
// their identity still exists.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.Session(r)
		id := IdentityID(sess)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			r = withUser(r, &SessionUser{ID: id})
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		u := sm.fetcher.FetchUser(ctx, id)
		cancel()
		if u == nil {
			sm.log.Warn("session identity not found, treating as signed out",
				zap.String("identity_id", id))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		unauthorized(w, r)
	})
}

// RequireRole ensures the signed-in user has one of the allowed roles.
// Role comparison is case-insensitive.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				unauthorized(w, r)
				return
			}

			if _, has := set[strings.ToLower(u.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func unauthorized(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}

	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
