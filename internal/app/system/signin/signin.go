// Package signin opens and closes a member's session with the backend.
package signin

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/unionhub/internal/app/store/sessions"
	"github.com/dalemusser/unionhub/internal/app/system/authn"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for a rejected email/password pair.
	ErrInvalidCredentials = authn.ErrInvalidCredentials

	// ErrUnprovisioned means the auth service accepted the credentials but
	// no identity record exists for the subject.
	ErrUnprovisioned = errors.New("authenticated but no identity record exists")
)

// IdentityReader fetches an identity by id.
type IdentityReader interface {
	GetByID(ctx context.Context, id string) (models.Identity, error)
}

// ActivitySessions records backend sessions.
type ActivitySessions interface {
	Create(ctx context.Context, identityID, ip, userAgent string) (sessions.Session, error)
	Close(ctx context.Context, sessionID, reason string) error
	Touch(ctx context.Context, sessionID string) error
}

// Service is the login/logout half of the session holder. The cookie half
// lives in auth.SessionManager.
type Service struct {
	auth       authn.Authenticator
	identities IdentityReader
	sessions   ActivitySessions
	log        *zap.Logger
}

func New(a authn.Authenticator, identities IdentityReader, sess ActivitySessions, logger *zap.Logger) *Service {
	return &Service{auth: a, identities: identities, sessions: sess, log: logger}
}

// Login authenticates and resolves the identity. On success it opens an
// activity session and returns its id.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (*models.Identity, string, error) {
	p, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("authenticate: %w", err)
	}

	ident, err := s.identities.GetByID(ctx, p.Subject)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.log.Warn("login for subject without identity", zap.String("subject", p.Subject))
		return nil, "", ErrUnprovisioned
	}
	if err != nil {
		return nil, "", fmt.Errorf("load identity: %w", err)
	}

	act, err := s.sessions.Create(ctx, ident.ID, ip, userAgent)
	if err != nil {
		// The member is signed in regardless; the activity row is bookkeeping.
		s.log.Error("failed to open activity session", zap.String("identity_id", ident.ID), zap.Error(err))
		return &ident, "", nil
	}
	return &ident, act.ID, nil
}

// Logout ends the activity session. An empty id is a no-op.
func (s *Service) Logout(ctx context.Context, activityID string) error {
	if activityID == "" {
		return nil
	}
	if err := s.sessions.Close(ctx, activityID, sessions.EndLogout); err != nil {
		return fmt.Errorf("close session %s: %w", activityID, err)
	}
	return nil
}

// Touch marks the activity session as active now.
func (s *Service) Touch(ctx context.Context, activityID string) error {
	if activityID == "" {
		return nil
	}
	return s.sessions.Touch(ctx, activityID)
}
