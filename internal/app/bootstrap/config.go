// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every app environment variable.
const EnvPrefix = "UNIONHUB"

// minSessionKeyLen is the shortest session key accepted outside dev.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for Union Hub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: UNIONHUB_MONGO_URI, UNIONHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "union_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "unionhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_dir", Default: "./data/sessions", Desc: "Directory for server-side session values (blank stores them in the cookie)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 24h, 30m)"},

	// Authentication backend
	{Name: "auth_mode", Default: AuthLocal, Desc: "Authentication backend: 'local' or 'remote'"},
	{Name: "auth_token_url", Default: "", Desc: "OAuth2 token endpoint for remote auth"},
	{Name: "auth_client_id", Default: "", Desc: "OAuth2 client ID for remote auth"},
	{Name: "auth_client_secret", Default: "", Desc: "OAuth2 client secret for remote auth"},
	{Name: "auth_jwt_secret", Default: "", Desc: "HS256 secret used to verify remote access tokens"},

	// Media storage
	{Name: "media_backend", Default: MediaLocal, Desc: "Media backend: 'local' or 's3'"},
	{Name: "media_dir", Default: "./data/media", Desc: "Local media storage path"},
	{Name: "media_base_url", Default: "/media", Desc: "Public URL prefix for media objects"},
	{Name: "s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "s3_endpoint", Default: "", Desc: "S3-compatible endpoint URL (blank for AWS)"},

	// Background jobs
	{Name: "session_cleanup_schedule", Default: "@every 5m", Desc: "Cron schedule for closing idle activity sessions"},
	{Name: "session_inactive_after", Default: "30m", Desc: "Idle time after which an activity session is closed"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, UNIONHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
//
// Backend call deadlines are read separately from UNIONHUB_TIMEOUT_*.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionDir:    appValues.String("session_dir"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AuthMode:         appValues.String("auth_mode"),
		AuthTokenURL:     appValues.String("auth_token_url"),
		AuthClientID:     appValues.String("auth_client_id"),
		AuthClientSecret: appValues.String("auth_client_secret"),
		AuthJWTSecret:    appValues.String("auth_jwt_secret"),

		MediaBackend: appValues.String("media_backend"),
		MediaDir:     appValues.String("media_dir"),
		MediaBaseURL: appValues.String("media_base_url"),
		S3Bucket:     appValues.String("s3_bucket"),
		S3Region:     appValues.String("s3_region"),
		S3Endpoint:   appValues.String("s3_endpoint"),

		SessionCleanupSchedule: appValues.String("session_cleanup_schedule"),
		SessionInactiveAfter:   appValues.Duration("session_inactive_after", 30*time.Minute),
	}

	if n := timeouts.ConfigureFromEnv(EnvPrefix + "_"); n > 0 {
		logger.Info("backend timeouts overridden from env", zap.Int("count", n))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateApp(appCfg, coreCfg.Env == "dev"); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}
	return nil
}

// validateApp checks appCfg on its own. A short session key is allowed in
// dev only.
func validateApp(appCfg AppConfig, dev bool) error {
	var errs []error

	if appCfg.MongoURI == "" {
		errs = append(errs, errors.New("mongo_uri is required"))
	} else if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
	}
	if appCfg.MongoDatabase == "" {
		errs = append(errs, errors.New("mongo_database is required"))
	}

	switch {
	case appCfg.SessionKey == "":
		errs = append(errs, errors.New("session_key is required"))
	case len(appCfg.SessionKey) < minSessionKeyLen && !dev:
		errs = append(errs, fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen))
	}

	switch appCfg.AuthMode {
	case AuthLocal:
	case AuthRemote:
		if appCfg.AuthTokenURL == "" {
			errs = append(errs, errors.New("auth_mode=remote requires auth_token_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth_mode %q (want %q or %q)", appCfg.AuthMode, AuthLocal, AuthRemote))
	}

	switch appCfg.MediaBackend {
	case MediaLocal:
		if appCfg.MediaDir == "" {
			errs = append(errs, errors.New("media_backend=local requires media_dir"))
		}
	case MediaS3:
		if appCfg.S3Bucket == "" {
			errs = append(errs, errors.New("media_backend=s3 requires s3_bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown media_backend %q (want %q or %q)", appCfg.MediaBackend, MediaLocal, MediaS3))
	}

	if appCfg.SessionInactiveAfter <= 0 {
		errs = append(errs, errors.New("session_inactive_after must be positive"))
	}

	return errors.Join(errs...)
}
