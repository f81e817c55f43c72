package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Count is one row of a grouped count. An empty Key groups identities with
// no value for the field.
type Count struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

// CountByRole returns the number of identities per role, sorted by role.
func CountByRole(ctx context.Context, db *mongo.Database) ([]Count, error) {
	return groupCount(ctx, db, "role")
}

// CountByStatus returns the number of identities per membership status,
// sorted by status.
func CountByStatus(ctx context.Context, db *mongo.Database) ([]Count, error) {
	return groupCount(ctx, db, "membership_status")
}

// Total sums the rows.
func Total(rows []Count) int64 {
	var n int64
	for _, r := range rows {
		n += r.Count
	}
	return n
}

func groupCount(ctx context.Context, db *mongo.Database, field string) ([]Count, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$" + field, ""}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := db.Collection("identities").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Count{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
