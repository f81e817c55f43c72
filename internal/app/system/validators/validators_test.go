package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/validators"
	"github.com/dalemusser/unionhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"identities", "credentials", "issue_reports", "issue_images", "sites", "sessions"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestIdentitiesValidator_UnknownRoleAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("identities").InsertOne(ctx, bson.M{
		"_id":               "id-1",
		"full_name":         "Odd Role",
		"full_name_ci":      "odd role",
		"email":             "odd@example.com",
		"role":              "steward",
		"membership_status": "Active",
		"active":            true,
	})
	if err != nil {
		t.Errorf("insert with unknown role failed: %v", err)
	}
}

func TestIdentitiesValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("identities").InsertOne(ctx, bson.M{"_id": "id-2", "email": "x@example.com"})
	if err == nil {
		t.Error("expected validation error when inserting identity without required fields")
	}
}

func TestIssueReportsValidator_EmptyDescriptionAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("issue_reports").InsertOne(ctx, bson.M{
		"_id":         "r-1",
		"reporter_id": "id-1",
		"category":    "Rostering",
		"description": "",
		"urgent":      false,
		"created_at":  time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("insert with empty description failed: %v", err)
	}

	_, err = db.Collection("issue_reports").InsertOne(ctx, bson.M{
		"_id":         "r-2",
		"reporter_id": "id-1",
		"category":    "   ",
		"description": "x",
		"urgent":      false,
		"created_at":  time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected validation error for blank category")
	}
}
