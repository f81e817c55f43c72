package identitystore

import (
	"context"

	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh identity data on each
// request.
type Fetcher struct {
	c *mongo.Collection
}

func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{c: db.Collection("identities")}
}

// FetchUser returns nil if the identity is not found or the lookup fails.
// The caller bounds ctx.
func (f *Fetcher) FetchUser(ctx context.Context, identityID string) *auth.SessionUser {
	var doc struct {
		ID        string `bson:"_id"`
		FullName  string `bson:"full_name"`
		Email     string `bson:"email"`
		Role      string `bson:"role"`
		AvatarURL string `bson:"avatar_url"`
	}
	proj := options.FindOne().SetProjection(bson.M{
		"full_name":  1,
		"email":      1,
		"role":       1,
		"avatar_url": 1,
	})
	if err := f.c.FindOne(ctx, bson.M{"_id": identityID}, proj).Decode(&doc); err != nil {
		return nil
	}
	return &auth.SessionUser{
		ID:        doc.ID,
		Name:      doc.FullName,
		Email:     doc.Email,
		Role:      normalize.Role(doc.Role),
		AvatarURL: doc.AvatarURL,
	}
}
