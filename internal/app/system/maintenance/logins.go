package maintenance

import (
	"context"
	"errors"
	"fmt"

	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	"github.com/dalemusser/unionhub/internal/app/system/authn"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

// Credentials is the credential store as ProvisionLogins uses it.
type Credentials interface {
	Exists(ctx context.Context, identityID string) (bool, error)
	Create(ctx context.Context, identityID, email, passwordHash string) error
}

// LoginOptions configures ProvisionLogins.
type LoginOptions struct {
	Password string // shared test password
	Domain   string // email domain, e.g. "example.com"
	DryRun   bool
}

// LoginEmail is "user<member number>@<domain>". Identities without a member
// number use seq, their 1-based position in _id order.
func LoginEmail(ident models.Identity, seq int, domain string) string {
	n := int64(seq)
	if ident.MemberNumber != nil {
		n = *ident.MemberNumber
	}
	return fmt.Sprintf("user%d@%s", n, domain)
}

// ProvisionLogins creates a credential for every identity that has none.
// The credential is keyed by the identity id, so a later login resolves to
// that identity.
func ProvisionLogins(ctx context.Context, ids Identities, creds Credentials, opts LoginOptions, logger *zap.Logger) (Report, error) {
	if opts.Password == "" || opts.Domain == "" {
		return Report{}, errors.New("password and domain are required")
	}

	var rep Report
	err := ids.ListAll(ctx, func(ident models.Identity) error {
		rep.Seen++
		email := LoginEmail(ident, rep.Seen, opts.Domain)
		log := logger.With(zap.String("identity_id", ident.ID), zap.String("email", email))

		has, err := creds.Exists(ctx, ident.ID)
		if err != nil {
			rep.Failed++
			log.Error("check credential", zap.Error(err))
			return nil
		}
		if has {
			rep.Skipped++
			return nil
		}
		if opts.DryRun {
			rep.Done++
			log.Info("would create login")
			return nil
		}

		hash, err := authn.HashPassword(opts.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		switch err := creds.Create(ctx, ident.ID, email, hash); {
		case errors.Is(err, credentialstore.ErrExists):
			// Email taken by another credential.
			rep.Skipped++
			log.Warn("login email already in use")
		case err != nil:
			rep.Failed++
			log.Error("create login", zap.Error(err))
		default:
			rep.Done++
			log.Info("created login")
		}
		return nil
	})
	return rep, err
}
