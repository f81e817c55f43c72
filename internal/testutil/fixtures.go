package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password fixtures give every credential.
const DefaultPassword = "123456"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// IdentityOpt adjusts a fixture identity before insert.
type IdentityOpt func(*models.Identity)

func WithSite(site string) IdentityOpt {
	return func(i *models.Identity) { i.Site = site }
}

func WithStatus(status string) IdentityOpt {
	return func(i *models.Identity) { i.MembershipStatus = status }
}

func WithMemberNumber(n int64) IdentityOpt {
	return func(i *models.Identity) { i.MemberNumber = &n }
}

// CreateIdentity inserts an identity with a fresh uuid. Status defaults
// to Active.
func (f *Fixtures) CreateIdentity(ctx context.Context, fullName, email, role string, opts ...IdentityOpt) models.Identity {
	f.t.Helper()

	now := time.Now().UTC()
	ident := models.Identity{
		ID:               uuid.NewString(),
		FullName:         fullName,
		FullNameCI:       text.Fold(fullName),
		Email:            email,
		Role:             role,
		MembershipStatus: models.StatusActive,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, o := range opts {
		o(&ident)
	}

	if _, err := f.db.Collection("identities").InsertOne(ctx, ident); err != nil {
		f.t.Fatalf("failed to create test identity: %v", err)
	}
	return ident
}

// CreateCredential inserts a local login for identityID with
// DefaultPassword. It uses the minimum bcrypt cost to keep tests fast.
func (f *Fixtures) CreateCredential(ctx context.Context, identityID, email string) models.Credential {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	cred := models.Credential{
		IdentityID:   identityID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("credentials").InsertOne(ctx, cred); err != nil {
		f.t.Fatalf("failed to create test credential: %v", err)
	}
	return cred
}

// CreateMemberWithLogin creates an identity and a matching credential.
func (f *Fixtures) CreateMemberWithLogin(ctx context.Context, fullName, email, role string, opts ...IdentityOpt) models.Identity {
	f.t.Helper()
	ident := f.CreateIdentity(ctx, fullName, email, role, opts...)
	f.CreateCredential(ctx, ident.ID, email)
	return ident
}

// CreateSite inserts a site.
func (f *Fixtures) CreateSite(ctx context.Context, name string) models.Site {
	f.t.Helper()
	s := models.Site{ID: uuid.NewString(), Name: name}
	if _, err := f.db.Collection("sites").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test site: %v", err)
	}
	return s
}
