package credentialstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/indexes"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrExists is returned when the identity or email already has a credential.
var ErrExists = errors.New("credential already exists")

// Store is the local auth service's credential table.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_credentials_email").SetUnique(true),
	}})
}

// GetByEmail returns mongo.ErrNoDocuments when there is no credential.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Credential, error) {
	var out models.Credential
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&out)
	return out, err
}

// Exists reports whether identityID has a credential.
func (s *Store) Exists(ctx context.Context, identityID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": identityID}, options.Count().SetLimit(1))
	return n > 0, err
}

// Create stores a credential with an already-hashed password.
func (s *Store) Create(ctx context.Context, identityID, email, passwordHash string) error {
	cred := models.Credential{
		IdentityID:   identityID,
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrExists
		}
		return err
	}
	return nil
}
