package credentialstore_test

import (
	"errors"
	"testing"

	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	"github.com/dalemusser/unionhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := credentialstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	if err := store.Create(ctx, "id-1", " User1001@Example.com ", "hash"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByEmail(ctx, "user1001@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.IdentityID != "id-1" || got.Email != "user1001@example.com" {
		t.Errorf("unexpected credential: %+v", got)
	}

	ok, err := store.Exists(ctx, "id-1")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}

	if err := store.Create(ctx, "id-2", "user1001@example.com", "hash"); !errors.Is(err, credentialstore.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := credentialstore.New(db).GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}
