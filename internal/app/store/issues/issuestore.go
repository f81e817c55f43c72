package issuestore

import (
	"context"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/indexes"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	reports *mongo.Collection
	images  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		reports: db.Collection("issue_reports"),
		images:  db.Collection("issue_images"),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := indexes.EnsureSet(ctx, s.reports, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "reporter_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_issue_reports_reporter"),
	}}); err != nil {
		return err
	}
	return indexes.EnsureSet(ctx, s.images, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "issue_id", Value: 1}},
		Options: options.Index().SetName("idx_issue_images_issue"),
	}})
}

// Insert stores a new report and returns it with its id and timestamp set.
func (s *Store) Insert(ctx context.Context, r models.IssueReport) (models.IssueReport, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := s.reports.InsertOne(ctx, r); err != nil {
		return models.IssueReport{}, err
	}
	return r, nil
}

// InsertImage links an uploaded image to a report.
func (s *Store) InsertImage(ctx context.Context, img models.IssueImage) (models.IssueImage, error) {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	if _, err := s.images.InsertOne(ctx, img); err != nil {
		return models.IssueImage{}, err
	}
	return img, nil
}

// ListByReporter returns a member's reports, newest first.
func (s *Store) ListByReporter(ctx context.Context, reporterID string, limit int64) ([]models.IssueReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.reports.Find(ctx, bson.M{"reporter_id": reporterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.IssueReport{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
