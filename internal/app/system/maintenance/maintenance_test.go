package maintenance_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	"github.com/dalemusser/unionhub/internal/app/system/maintenance"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func num(n int64) *int64 { return &n }

type fakeIdentities struct {
	rows    []models.Identity
	avatars map[string]string
	gone    map[string]bool
}

func (f *fakeIdentities) ListAll(_ context.Context, fn func(models.Identity) error) error {
	for _, i := range f.rows {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeIdentities) ListByNamePrefix(_ context.Context, prefix string) ([]models.Identity, error) {
	var out []models.Identity
	for _, i := range f.rows {
		if strings.HasPrefix(strings.ToLower(i.FullName), strings.ToLower(prefix)) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeIdentities) SetAvatarURL(_ context.Context, id, url string) (int64, error) {
	if f.gone[id] {
		return 0, nil
	}
	if f.avatars == nil {
		f.avatars = map[string]string{}
	}
	f.avatars[id] = url
	return 1, nil
}

type fakeCreds struct {
	existing map[string]bool
	created  map[string]string // identity id -> email
	hashes   map[string]string
	takenBy  string // email that returns ErrExists
}

func (f *fakeCreds) Exists(_ context.Context, id string) (bool, error) { return f.existing[id], nil }

func (f *fakeCreds) Create(_ context.Context, id, email, hash string) error {
	if email == f.takenBy {
		return credentialstore.ErrExists
	}
	if f.created == nil {
		f.created, f.hashes = map[string]string{}, map[string]string{}
	}
	f.created[id], f.hashes[id] = email, hash
	return nil
}

func TestLoginEmail(t *testing.T) {
	if got := maintenance.LoginEmail(models.Identity{MemberNumber: num(42)}, 7, "example.com"); got != "user42@example.com" {
		t.Errorf("with member number: %q", got)
	}
	if got := maintenance.LoginEmail(models.Identity{}, 7, "example.com"); got != "user7@example.com" {
		t.Errorf("without member number: %q", got)
	}
}

func TestProvisionLogins(t *testing.T) {
	ids := &fakeIdentities{rows: []models.Identity{
		{ID: "a", MemberNumber: num(1)},
		{ID: "b", MemberNumber: num(2)},
		{ID: "c", MemberNumber: num(3)},
		{ID: "d", MemberNumber: num(4)},
	}}
	creds := &fakeCreds{existing: map[string]bool{"b": true}, takenBy: "user4@example.com"}

	rep, err := maintenance.ProvisionLogins(context.Background(), ids, creds,
		maintenance.LoginOptions{Password: "123456", Domain: "example.com"}, zap.NewNop())
	if err != nil {
		t.Fatalf("ProvisionLogins: %v", err)
	}
	if rep.Seen != 4 || rep.Done != 2 || rep.Skipped != 2 || rep.Failed != 0 {
		t.Errorf("report = %v", rep)
	}
	if creds.created["a"] != "user1@example.com" || creds.created["c"] != "user3@example.com" {
		t.Errorf("created = %v", creds.created)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.hashes["a"]), []byte("123456")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestProvisionLogins_DryRun(t *testing.T) {
	ids := &fakeIdentities{rows: []models.Identity{{ID: "a"}}}
	creds := &fakeCreds{}
	rep, err := maintenance.ProvisionLogins(context.Background(), ids, creds,
		maintenance.LoginOptions{Password: "x", Domain: "example.com", DryRun: true}, zap.NewNop())
	if err != nil || rep.Done != 1 {
		t.Fatalf("rep=%v err=%v", rep, err)
	}
	if len(creds.created) != 0 {
		t.Error("dry run must not create credentials")
	}
}

func TestProvisionLogins_RequiresOptions(t *testing.T) {
	_, err := maintenance.ProvisionLogins(context.Background(), &fakeIdentities{}, &fakeCreds{}, maintenance.LoginOptions{}, zap.NewNop())
	if err == nil {
		t.Error("expected error without password and domain")
	}
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type staticPortraits struct{ body []byte }

func (s staticPortraits) Portrait(context.Context, models.Identity) (io.ReadCloser, int64, error) {
	if s.body == nil {
		return nil, 0, errors.New("portrait service down")
	}
	return io.NopCloser(bytes.NewReader(s.body)), int64(len(s.body)), nil
}

func TestBackfillAvatars(t *testing.T) {
	ids := &fakeIdentities{rows: []models.Identity{
		{ID: "d1", FullName: "Darren Hall"},
		{ID: "d2", FullName: "darren Ng", AvatarURL: "/media/avatars/d2.jpg"},
		{ID: "m1", FullName: "Mere Tane"},
	}}
	store, err := media.NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	rep, err := maintenance.BackfillAvatars(context.Background(), ids, store, staticPortraits{body: pngBytes},
		maintenance.AvatarOptions{NamePrefix: "Darren"}, zap.NewNop())
	if err != nil {
		t.Fatalf("BackfillAvatars: %v", err)
	}
	if rep.Seen != 2 || rep.Done != 1 || rep.Skipped != 1 {
		t.Errorf("report = %v", rep)
	}
	if !strings.HasPrefix(ids.avatars["d1"], "/media/avatars/d1.jpg") {
		t.Errorf("d1 avatar = %q", ids.avatars["d1"])
	}
	if _, ok := ids.avatars["m1"]; ok {
		t.Error("m1 does not match the prefix")
	}
}

func TestBackfillAvatars_FailuresContinue(t *testing.T) {
	ids := &fakeIdentities{rows: []models.Identity{{ID: "d1", FullName: "Darren A"}, {ID: "d2", FullName: "Darren B"}}}
	store, _ := media.NewLocal(t.TempDir(), "/media")

	rep, err := maintenance.BackfillAvatars(context.Background(), ids, store, staticPortraits{},
		maintenance.AvatarOptions{NamePrefix: "Darren"}, zap.NewNop())
	if err != nil {
		t.Fatalf("BackfillAvatars: %v", err)
	}
	if rep.Failed != 2 || rep.Done != 0 {
		t.Errorf("report = %v", rep)
	}
}

func TestHTTPPortraits(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Path == "/p/99.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	src := maintenance.HTTPPortraits{Client: srv.Client(), URLTemplate: srv.URL + "/p/%d.jpg"}
	body, _, err := src.Portrait(context.Background(), models.Identity{ID: "x", MemberNumber: num(142)})
	if err != nil {
		t.Fatalf("Portrait: %v", err)
	}
	body.Close()
	if gotPath != "/p/42.jpg" {
		t.Errorf("path = %q, want /p/42.jpg", gotPath)
	}

	if _, _, err := src.Portrait(context.Background(), models.Identity{MemberNumber: num(99)}); err == nil {
		t.Error("expected error for 404")
	}
}

func TestPortraitIndex_Stable(t *testing.T) {
	a := maintenance.PortraitIndex(models.Identity{ID: "3f1c"})
	b := maintenance.PortraitIndex(models.Identity{ID: "3f1c"})
	if a != b || a < 0 || a > 99 {
		t.Errorf("index %d, %d", a, b)
	}
}

type fakeSites struct{ ensured []string }

func (f *fakeSites) Ensure(_ context.Context, name string) error {
	f.ensured = append(f.ensured, name)
	return nil
}

func TestSyncSites(t *testing.T) {
	ids := &fakeIdentities{rows: []models.Identity{
		{ID: "1", Site: "Port"}, {ID: "2", Site: " Mill "}, {ID: "3", Site: "Port"}, {ID: "4"},
	}}
	sites := &fakeSites{}
	rep, err := maintenance.SyncSites(context.Background(), ids, sites, zap.NewNop())
	if err != nil {
		t.Fatalf("SyncSites: %v", err)
	}
	if rep.Done != 2 || len(sites.ensured) != 2 || sites.ensured[0] != "Mill" || sites.ensured[1] != "Port" {
		t.Errorf("rep=%v ensured=%v", rep, sites.ensured)
	}
}

func TestBackfillAvatars_IdentityGone(t *testing.T) {
	ids := &fakeIdentities{
		rows: []models.Identity{{ID: "d1", FullName: "Darren A"}, {ID: "d2", FullName: "Darren B"}},
		gone: map[string]bool{"d1": true},
	}
	store, _ := media.NewLocal(t.TempDir(), "/media")

	rep, err := maintenance.BackfillAvatars(context.Background(), ids, store, staticPortraits{body: pngBytes},
		maintenance.AvatarOptions{NamePrefix: "Darren"}, zap.NewNop())
	if err != nil {
		t.Fatalf("BackfillAvatars: %v", err)
	}
	if rep.Failed != 1 || rep.Done != 1 {
		t.Errorf("report = %v", rep)
	}
	if _, ok := ids.avatars["d1"]; ok {
		t.Error("d1 should not have an avatar")
	}
}
