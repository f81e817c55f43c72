// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: unionhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionDir    string        // Server-side session directory; blank keeps values in the cookie
	SessionMaxAge time.Duration // Cookie and stored-session lifetime

	// Authentication backend
	AuthMode         string // "local" (bcrypt credentials in Mongo) or "remote" (OAuth2 password grant)
	AuthTokenURL     string // Token endpoint for remote mode
	AuthClientID     string
	AuthClientSecret string
	AuthJWTSecret    string // HS256 secret for verifying remote access tokens; blank skips verification

	// Media storage
	MediaBackend string // "local" or "s3"
	MediaDir     string // Local storage root
	MediaBaseURL string // Public URL prefix for stored objects
	S3Bucket     string
	S3Region     string
	S3Endpoint   string // S3-compatible endpoint (MinIO, R2); blank for AWS

	// Background jobs
	SessionCleanupSchedule string        // cron spec, e.g. "@every 5m"
	SessionInactiveAfter   time.Duration // idle time after which an activity session is closed
}

// Modes
const (
	AuthLocal  = "local"
	AuthRemote = "remote"

	MediaLocal = "local"
	MediaS3    = "s3"
)
