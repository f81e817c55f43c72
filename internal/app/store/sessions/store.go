// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/indexes"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// End reasons
const (
	EndLogout     = "logout"
	EndInactive   = "inactive"
	EndSuperseded = "superseded"
)

// Session is the backend's record of a signed-in session. Logging out
// closes it; the cleanup worker closes sessions that went idle.
type Session struct {
	ID         string `bson:"_id"`
	IdentityID string `bson:"identity_id"`

	LoginAt      time.Time  `bson:"login_at"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty"`
	LastActiveAt time.Time  `bson:"last_active_at"`
	EndReason    string     `bson:"end_reason,omitempty"` // logout | inactive | superseded

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Set when the session closes.
	DurationSecs int64 `bson:"duration_secs,omitempty"`
}

// Store manages activity sessions.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "last_active_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_active"),
		},
		{
			Keys:    bson.D{{Key: "identity_id", Value: 1}, {Key: "login_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_identity"),
		},
	})
}

// closeUpdate sets logout_at, end_reason and duration_secs in one
// pipeline update so the duration is computed from each row's login_at.
func closeUpdate(now time.Time, reason string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"logout_at":  now,
			"end_reason": reason,
			"duration_secs": bson.M{"$toLong": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{now, "$login_at"}}, 1000,
			}}},
		}}},
	}
}

// Create opens a session for identityID, closing any it still has open.
func (s *Store) Create(ctx context.Context, identityID, ip, userAgent string) (Session, error) {
	now := time.Now().UTC()

	if _, err := s.c.UpdateMany(ctx,
		bson.M{"identity_id": identityID, "logout_at": nil},
		closeUpdate(now, EndSuperseded),
	); err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:           uuid.NewString(),
		IdentityID:   identityID,
		LoginAt:      now,
		LastActiveAt: now,
		IP:           ip,
		UserAgent:    userAgent,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Close ends an open session. Closing an already-closed session is a
// no-op; an unknown id returns mongo.ErrNoDocuments.
func (s *Store) Close(ctx context.Context, sessionID, reason string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": sessionID, "logout_at": nil},
		closeUpdate(time.Now().UTC(), reason),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": sessionID})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

// Touch records activity on an open session.
func (s *Store) Touch(ctx context.Context, sessionID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": sessionID, "logout_at": nil},
		bson.M{"$set": bson.M{"last_active_at": time.Now().UTC()}},
	)
	return err
}

// GetByID retrieves a session by its ID.
func (s *Store) GetByID(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&sess)
	return sess, err
}

// CloseInactive closes open sessions idle for longer than threshold and
// returns how many were closed.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "last_active_at": bson.M{"$lt": now.Add(-threshold)}},
		closeUpdate(now, EndInactive),
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
