package identitystore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/indexes"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when an identity with the same email exists.
var ErrDuplicateEmail = errors.New("an identity with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities")}
}

// EnsureIndexes creates the lookup and search indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_identities_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_identities_name"),
		},
		{
			Keys:    bson.D{{Key: "site", Value: 1}, {Key: "membership_status", Value: 1}},
			Options: options.Index().SetName("idx_identities_site_status"),
		},
		{
			Keys:    bson.D{{Key: "member_number", Value: 1}},
			Options: options.Index().SetName("idx_identities_member_number").SetSparse(true),
		},
	})
}

// GetByID loads an identity. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id string) (models.Identity, error) {
	var out models.Identity
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	return out, err
}

// Filter builds the query for c. Criteria are ANDed and each applies only
// when set; empty criteria produce an empty filter.
//
//   - Name: case- and diacritic-insensitive substring of the full name
//   - Site: exact match
//   - ActiveOnly: membership_status equals models.StatusActive
func Filter(c models.SearchCriteria) bson.M {
	f := bson.M{}
	if name := normalize.Name(c.Name); name != "" {
		f["full_name_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(name))}
	}
	if c.Site != "" {
		f["site"] = c.Site
	}
	if c.ActiveOnly {
		f["membership_status"] = models.StatusActive
	}
	return f
}

// Search returns every identity matching c, ordered by name. There is no
// paging; the caller replaces its result set with the return value.
func (s *Store) Search(ctx context.Context, c models.SearchCriteria) ([]models.Identity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, Filter(c), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Identity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByIDs returns the identities for ids, in the order of ids. Ids with
// no identity are skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]models.Identity, error) {
	if len(ids) == 0 {
		return []models.Identity{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.Identity
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Identity, len(found))
	for _, i := range found {
		byID[i.ID] = i
	}
	out := make([]models.Identity, 0, len(found))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// Update holds the editable identity fields. Nil fields are left unchanged.
type Update struct {
	FullName         *string
	MembershipStatus *string
	Phone            *string
	Address          *string
	Site             *string
	AvatarURL        *string
}

// UpdateFields applies upd to the identity and returns how many records
// matched. A zero count means the record no longer exists; callers must
// not assume the write happened.
func (s *Store) UpdateFields(ctx context.Context, id string, upd Update) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.MembershipStatus != nil {
		set["membership_status"] = normalize.Status(*upd.MembershipStatus)
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Site != nil {
		set["site"] = *upd.Site
	}
	if upd.AvatarURL != nil {
		set["avatar_url"] = *upd.AvatarURL
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetAvatarURL points the identity at a newly uploaded avatar.
func (s *Store) SetAvatarURL(ctx context.Context, id, url string) (int64, error) {
	return s.UpdateFields(ctx, id, Update{AvatarURL: &url})
}

// Create inserts a new identity after normalizing its fields. A blank ID
// gets a fresh uuid.
func (s *Store) Create(ctx context.Context, ident models.Identity) (models.Identity, error) {
	if ident.ID == "" {
		ident.ID = uuid.NewString()
	}
	ident.FullName = normalize.Name(ident.FullName)
	ident.FullNameCI = text.Fold(ident.FullName)
	ident.Email = normalize.Email(ident.Email)
	ident.Role = normalize.Role(ident.Role)
	ident.MembershipStatus = normalize.Status(ident.MembershipStatus)
	now := time.Now().UTC()
	if ident.CreatedAt.IsZero() {
		ident.CreatedAt = now
	}
	ident.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ident); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Identity{}, ErrDuplicateEmail
		}
		return models.Identity{}, err
	}
	return ident, nil
}

// ListByNamePrefix returns identities whose folded name starts with prefix,
// for maintenance jobs.
func (s *Store) ListByNamePrefix(ctx context.Context, prefix string) ([]models.Identity, error) {
	f := bson.M{}
	if p := text.Fold(normalize.Name(prefix)); p != "" {
		f["full_name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(p)}
	}
	cur, err := s.c.Find(ctx, f, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Identity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll streams every identity to fn in _id order. Iteration stops at the
// first error fn returns.
func (s *Store) ListAll(ctx context.Context, fn func(models.Identity) error) error {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var i models.Identity
		if err := cur.Decode(&i); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return cur.Err()
}
