package sessions_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/store/sessions"
	"github.com/dalemusser/unionhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess, err := store.Create(ctx, "id-1", "192.168.1.1", "Mozilla/5.0")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if sess.IdentityID != "id-1" || sess.IP != "192.168.1.1" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.LogoutAt != nil {
		t.Error("expected LogoutAt to be nil for new session")
	}
}

func TestStore_Create_SupersedesOpenSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, "id-1", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, "id-1", "", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LogoutAt == nil || got.EndReason != sessions.EndSuperseded {
		t.Errorf("expected first session superseded, got %+v", got)
	}
}

func TestStore_Close(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess, err := store.Create(ctx, "id-1", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Close(ctx, sess.ID, sessions.EndLogout); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Second close is a no-op.
	if err := store.Close(ctx, sess.ID, sessions.EndLogout); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	got, _ := store.GetByID(ctx, sess.ID)
	if got.LogoutAt == nil || got.EndReason != sessions.EndLogout {
		t.Errorf("expected closed session, got %+v", got)
	}

	if err := store.Close(ctx, "missing", sessions.EndLogout); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_CloseInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	idle, _ := store.Create(ctx, "id-1", "", "")
	fresh, _ := store.Create(ctx, "id-2", "", "")

	old := time.Now().UTC().Add(-2 * time.Hour)
	if _, err := db.Collection("sessions").UpdateOne(ctx,
		bson.M{"_id": idle.ID},
		bson.M{"$set": bson.M{"last_active_at": old, "login_at": old}},
	); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	n, err := store.CloseInactive(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CloseInactive: %v", err)
	}
	if n != 1 {
		t.Errorf("closed %d sessions, want 1", n)
	}

	got, _ := store.GetByID(ctx, idle.ID)
	if got.EndReason != sessions.EndInactive || got.DurationSecs < 7000 {
		t.Errorf("unexpected idle session: %+v", got)
	}
	got, _ = store.GetByID(ctx, fresh.ID)
	if got.LogoutAt != nil {
		t.Error("expected fresh session to stay open")
	}
}
