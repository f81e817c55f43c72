package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// CredentialSource looks up stored credentials.
type CredentialSource interface {
	GetByEmail(ctx context.Context, email string) (models.Credential, error)
}

// Local authenticates against bcrypt hashes.
type Local struct {
	creds CredentialSource
}

func NewLocal(creds CredentialSource) *Local {
	return &Local{creds: creds}
}

// dummyHash keeps unknown-email attempts as slow as wrong-password ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unionhub-dummy-password"), bcrypt.DefaultCost)

func (l *Local) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	cred, err := l.creds.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("credential lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Subject: cred.IdentityID, Email: cred.Email}, nil
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
