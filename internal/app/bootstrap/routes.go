// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	dashboardfeature "github.com/dalemusser/unionhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/unionhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/unionhub/internal/app/features/health"
	homefeature "github.com/dalemusser/unionhub/internal/app/features/home"
	issuesfeature "github.com/dalemusser/unionhub/internal/app/features/issues"
	loginfeature "github.com/dalemusser/unionhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/unionhub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/unionhub/internal/app/features/members"
	profilefeature "github.com/dalemusser/unionhub/internal/app/features/profile"
	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	issuestore "github.com/dalemusser/unionhub/internal/app/store/issues"
	sessionstore "github.com/dalemusser/unionhub/internal/app/store/sessions"
	sitestore "github.com/dalemusser/unionhub/internal/app/store/sites"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/authn"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/app/system/ratelimit"
	"github.com/dalemusser/unionhub/internal/app/system/signin"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Every screen renders at "/". The feature routers mounted below only take
// POSTed actions; each one updates the session and redirects back to "/",
// where the home handler picks the screen for the signed-in role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionDir, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh identity data on each request, so role and name changes apply
	// immediately.
	sessionMgr.SetUserFetcher(identitystore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores and services
	identities := identitystore.New(db)
	reports := issuestore.New(db)
	activity := sessionstore.New(db)

	authenticator, err := newAuthenticator(appCfg, db)
	if err != nil {
		return nil, err
	}
	signinSvc := signin.New(authenticator, identities, activity, logger)

	mediaStore, err := newMediaStore(appCfg)
	if err != nil {
		logger.Error("media store init failed", zap.Error(err))
		return nil, err
	}

	limiter := ratelimit.NewLoginLimiter()
	if jobs != nil {
		if err := jobs.AddSweep("@every 10m", "login-limiter", limiter); err != nil {
			return nil, err
		}
	}

	// Handlers
	errorsHandler := errorsfeature.NewHandler()
	loginHandler := loginfeature.NewHandler(sessionMgr, signinSvc, limiter, errLog, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, signinSvc, logger)
	dashboardHandler := dashboardfeature.NewHandler(db, reports, logger)
	membersHandler := membersfeature.NewHandler(identities, sitestore.New(db), sessionMgr, errLog, logger)
	issuesHandler := issuesfeature.NewHandler(reports, mediaStore, sessionMgr, errLog, logger)
	profileHandler := profilefeature.NewHandler(identities, mediaStore, sessionMgr, errLog, logger)

	homeHandler := homefeature.NewHandler(sessionMgr, homefeature.Screens{
		Login:         loginHandler.ServeScreen,
		Detail:        membersHandler.ServeDetail,
		Admin:         dashboardHandler.ServeAdmin,
		Organiser:     membersHandler.ServeOrganiser,
		MemberHome:    dashboardHandler.ServeMember,
		MemberReport:  issuesHandler.ServeForm,
		MemberProfile: profileHandler.ServeProfile,
		Error:         errorsHandler.ServeRoleError,
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Locally stored media (avatars, issue images)
	if appCfg.MediaBackend == MediaLocal && strings.HasPrefix(appCfg.MediaBaseURL, "/") {
		prefix := strings.TrimSuffix(appCfg.MediaBaseURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.MediaDir))
	}

	r.Group(func(app chi.Router) {
		app.Use(touchActivity(sessionMgr, signinSvc, logger))

		app.Mount("/", homefeature.Routes(homeHandler))
		app.Mount("/login", loginfeature.Routes(loginHandler))
		app.Mount("/logout", logoutfeature.Routes(logoutHandler))
		app.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))
		app.Mount("/issues", issuesfeature.Routes(issuesHandler, sessionMgr))
		app.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

		// Error pages
		app.Get("/forbidden", errorsHandler.Forbidden)
		app.Get("/unauthorized", errorsHandler.Unauthorized)
	})
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

func newAuthenticator(appCfg AppConfig, db *mongo.Database) (authn.Authenticator, error) {
	switch appCfg.AuthMode {
	case AuthRemote:
		return authn.NewRemote(authn.RemoteConfig{
			TokenURL:     appCfg.AuthTokenURL,
			ClientID:     appCfg.AuthClientID,
			ClientSecret: appCfg.AuthClientSecret,
			JWTSecret:    appCfg.AuthJWTSecret,
		})
	case AuthLocal:
		return authn.NewLocal(credentialstore.New(db)), nil
	}
	return nil, fmt.Errorf("unknown auth_mode %q", appCfg.AuthMode)
}

func newMediaStore(appCfg AppConfig) (media.Store, error) {
	switch appCfg.MediaBackend {
	case MediaS3:
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		return media.NewS3(ctx, media.S3Config{
			Region:        appCfg.S3Region,
			Bucket:        appCfg.S3Bucket,
			Endpoint:      appCfg.S3Endpoint,
			PublicBaseURL: appCfg.MediaBaseURL,
		})
	case MediaLocal:
		return media.NewLocal(appCfg.MediaDir, appCfg.MediaBaseURL)
	}
	return nil, fmt.Errorf("unknown media_backend %q", appCfg.MediaBackend)
}

// touchActivity marks the caller's activity session as active. Failures
// are logged and never block the request.
func touchActivity(sm *auth.SessionManager, svc *signin.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, err := sm.GetSession(r); err == nil {
				if id := auth.ActivitySessionID(sess); id != "" {
					ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
					if err := svc.Touch(ctx, id); err != nil {
						logger.Warn("touch activity session", zap.String("session_id", id), zap.Error(err))
					}
					cancel()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
