package sitestore

import (
	"context"
	"strings"

	"github.com/dalemusser/unionhub/internal/app/system/indexes"
	"github.com/dalemusser/unionhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sites")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("uniq_sites_name").SetUnique(true),
	}})
}

// List returns all sites sorted by name, for the search filter picker.
func (s *Store) List(ctx context.Context) ([]models.Site, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Site{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure inserts a site by name if it is not already present.
func (s *Store) Ensure(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := s.c.InsertOne(ctx, models.Site{ID: uuid.NewString(), Name: name})
	if err != nil && !wafflemongo.IsDup(err) {
		return err
	}
	return nil
}
