// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	issuestore "github.com/dalemusser/unionhub/internal/app/store/issues"
	sessionstore "github.com/dalemusser/unionhub/internal/app/store/sessions"
	sitestore "github.com/dalemusser/unionhub/internal/app/store/sites"
	"github.com/dalemusser/unionhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

// ConnectDB opens the Mongo client and checks it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("unionhub").
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureSchema applies collection validators and indexes. Both are
// idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("validators: %w", err)
	}

	stores := map[string]indexer{
		"identities":  identitystore.New(db),
		"credentials": credentialstore.New(db),
		"issues":      issuestore.New(db),
		"sessions":    sessionstore.New(db),
		"sites":       sitestore.New(db),
	}
	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("indexes for %s: %w", name, err)
		}
	}
	logger.Info("schema ensured", zap.Int("stores", len(stores)))
	return nil
}
