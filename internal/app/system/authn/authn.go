// Package authn checks credentials against the auth service.
//
// The auth service is either local (bcrypt hashes in the credentials
// collection) or remote (an OAuth2 token endpoint accepting the password
// grant). Both return the subject id that keys the member's identity.
package authn

import (
	"context"
	"errors"
)

// ErrInvalidCredentials means the email/password pair was rejected.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Principal is an authenticated subject.
type Principal struct {
	Subject string
	Email   string
}

// Authenticator verifies an email/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Principal, error)
}
