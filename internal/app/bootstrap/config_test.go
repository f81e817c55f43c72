package bootstrap

import (
	"strings"
	"testing"
	"time"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:             "mongodb://localhost:27017",
		MongoDatabase:        "union_hub",
		SessionKey:           strings.Repeat("k", 40),
		AuthMode:             AuthLocal,
		MediaBackend:         MediaLocal,
		MediaDir:             "./data/media",
		SessionInactiveAfter: 30 * time.Minute,
	}
}

func TestValidateApp_Valid(t *testing.T) {
	if err := validateApp(validConfig(), false); err != nil {
		t.Fatalf("validateApp: %v", err)
	}

	cfg := validConfig()
	cfg.AuthMode = AuthRemote
	cfg.AuthTokenURL = "https://auth.example.com/token"
	cfg.MediaBackend = MediaS3
	cfg.S3Bucket = "union-media"
	if err := validateApp(cfg, false); err != nil {
		t.Fatalf("validateApp remote/s3: %v", err)
	}
}

func TestValidateApp_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"missing uri", func(c *AppConfig) { c.MongoURI = "" }, "mongo_uri is required"},
		{"missing key", func(c *AppConfig) { c.SessionKey = "" }, "session_key is required"},
		{"short key", func(c *AppConfig) { c.SessionKey = "short" }, "at least 32"},
		{"unknown auth", func(c *AppConfig) { c.AuthMode = "ldap" }, "unknown auth_mode"},
		{"remote without url", func(c *AppConfig) { c.AuthMode = AuthRemote }, "auth_token_url"},
		{"unknown media", func(c *AppConfig) { c.MediaBackend = "gcs" }, "unknown media_backend"},
		{"s3 without bucket", func(c *AppConfig) { c.MediaBackend = MediaS3 }, "s3_bucket"},
		{"zero idle", func(c *AppConfig) { c.SessionInactiveAfter = 0 }, "session_inactive_after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateApp(cfg, false)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateApp_ShortKeyAllowedInDev(t *testing.T) {
	cfg := validConfig()
	cfg.SessionKey = "dev"
	if err := validateApp(cfg, true); err != nil {
		t.Errorf("validateApp dev: %v", err)
	}
}

func TestValidateApp_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.AuthMode = "ldap"
	cfg.MediaBackend = "gcs"
	err := validateApp(cfg, false)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"auth_mode", "media_backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestNewMediaStore_Local(t *testing.T) {
	cfg := validConfig()
	cfg.MediaDir = t.TempDir()
	cfg.MediaBaseURL = "/media"
	st, err := newMediaStore(cfg)
	if err != nil {
		t.Fatalf("newMediaStore: %v", err)
	}
	if got := st.PublicURL("avatars/a.jpg"); got != "/media/avatars/a.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
}

func TestNewAuthenticator_RemoteNeedsTokenURL(t *testing.T) {
	cfg := validConfig()
	cfg.AuthMode = AuthRemote
	if _, err := newAuthenticator(cfg, nil); err == nil {
		t.Error("expected error for remote auth without token url")
	}
}
