// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*
EnsureSet is called from each store's EnsureIndexes at startup. It is
idempotent: an index whose key pattern already exists is reused, renamed
or rebuilt as needed, and problems across the set are aggregated so
startup fails with all of them at once.
*/
func EnsureSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing, err := list(ctx, coll)
	if err != nil {
		return fmt.Errorf("%s: list indexes: %w", coll.Name(), err)
	}

	var problems []string
	for _, m := range want {
		if err := ensureOne(ctx, coll, m, existing); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// KeySig renders a key pattern as "a:1, b:-1" for comparison and logs.
func KeySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

func list(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[KeySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureOne(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, existing map[string]existingIndex) error {
	keys, ok := m.Keys.(bson.D)
	if !ok {
		return fmt.Errorf("%s: index keys must be bson.D", coll.Name())
	}
	var name string
	var unique *bool
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique = m.Options.Unique
	}
	sig := KeySig(keys)
	start := time.Now()
	log := zap.L().With(zap.String("collection", coll.Name()), zap.String("name", name), zap.String("keys", sig))

	if ex, ok := existing[sig]; ok {
		if isTrue(unique) == isTrue(ex.Unique) && (name == "" || ex.Name == name) {
			log.Debug("reusing existing index")
			return nil
		}
		// Name or uniqueness differs: drop and recreate.
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			return fmt.Errorf("%s(%s): drop %s failed: %w", coll.Name(), name, ex.Name, err)
		}
		log.Info("dropped index for rebuild", zap.String("old_name", ex.Name))
	}

	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isTrue(unique) && wafflemongo.IsDup(err) {
			return fmt.Errorf("%s(%s): cannot create unique index on [%s], duplicates present", coll.Name(), name, sig)
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}
	log.Info("index ensured", zap.Bool("unique", isTrue(unique)), zap.Duration("took", time.Since(start)))
	return nil
}
