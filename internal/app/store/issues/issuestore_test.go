package issuestore_test

import (
	"testing"

	issuestore "github.com/dalemusser/unionhub/internal/app/store/issues"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/unionhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestInsert_EmptyDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := issuestore.New(db)

	r, err := store.Insert(ctx, models.IssueReport{ReporterID: "id-1", Category: "Rostering"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Errorf("expected id and created_at to be set: %+v", r)
	}

	got, err := store.ListByReporter(ctx, "id-1", 10)
	if err != nil {
		t.Fatalf("ListByReporter: %v", err)
	}
	if len(got) != 1 || got[0].Description != "" {
		t.Errorf("unexpected reports: %+v", got)
	}
}

func TestInsertImage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := issuestore.New(db)

	img, err := store.InsertImage(ctx, models.IssueImage{IssueID: "r-1", ImageURL: "http://cdn/issue-images/r-1.jpg"})
	if err != nil {
		t.Fatalf("InsertImage: %v", err)
	}

	n, err := db.Collection("issue_images").CountDocuments(ctx, bson.M{"_id": img.ID, "issue_id": "r-1"})
	if err != nil || n != 1 {
		t.Errorf("expected stored image row, got %d (%v)", n, err)
	}
}
