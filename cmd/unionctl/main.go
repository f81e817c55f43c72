// Command unionctl runs maintenance jobs against the Union Hub database.
//
//	unionctl provision-logins [-password 123456] [-domain example.com] [-dry-run]
//	unionctl backfill-avatars [-prefix Darren] [-portrait-url URL] [-overwrite]
//	unionctl sync-sites
//
// Connection settings come from the same UNIONHUB_* variables the server
// reads; a .env file in the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	credentialstore "github.com/dalemusser/unionhub/internal/app/store/credentials"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	sitestore "github.com/dalemusser/unionhub/internal/app/store/sites"
	"github.com/dalemusser/unionhub/internal/app/system/maintenance"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var commands = map[string]bool{
	"provision-logins": true,
	"backfill-avatars": true,
	"sync-sites":       true,
}

// errFlags marks a flag parse failure; the flag set has already printed it.
var errFlags = errors.New("invalid flags")

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: unionctl <provision-logins|backfill-avatars|sync-sites> [flags]")
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before
// main exits.
func realMain(args []string, stderr io.Writer) int {
	if len(args) < 1 || !commands[args[0]] {
		usage(stderr)
		return 2
	}
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, args[0], args[1:], stderr, logger)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errFlags):
		return 2
	default:
		logger.Error("unionctl failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
}

func run(ctx context.Context, cmd string, args []string, stderr io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		password    = fs.String("password", "123456", "shared password for provisioned logins")
		domain      = fs.String("domain", "example.com", "email domain for provisioned logins")
		dryRun      = fs.Bool("dry-run", false, "report what would be created without writing")
		prefix      = fs.String("prefix", "", "only identities whose name starts with this")
		portraitURL = fs.String("portrait-url", maintenance.DefaultPortraitURL, "portrait URL template with one %d")
		overwrite   = fs.Bool("overwrite", false, "replace avatars that are already set")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errFlags, err)
	}

	db, disconnect, err := connect(ctx)
	if err != nil {
		return err
	}
	defer disconnect()
	ids := identitystore.New(db)

	var rep maintenance.Report
	switch cmd {
	case "provision-logins":
		rep, err = maintenance.ProvisionLogins(ctx, ids, credentialstore.New(db),
			maintenance.LoginOptions{Password: *password, Domain: *domain, DryRun: *dryRun}, logger)
	case "backfill-avatars":
		var store media.Store
		if store, err = mediaStore(ctx); err != nil {
			return err
		}
		src := maintenance.HTTPPortraits{Client: &http.Client{Timeout: 20 * time.Second}, URLTemplate: *portraitURL}
		rep, err = maintenance.BackfillAvatars(ctx, ids, store, src,
			maintenance.AvatarOptions{NamePrefix: *prefix, Overwrite: *overwrite}, logger)
	case "sync-sites":
		rep, err = maintenance.SyncSites(ctx, ids, sitestore.New(db), logger)
	}
	if err != nil {
		return err
	}
	logger.Info("done", zap.String("command", cmd), zap.Stringer("report", rep))
	return nil
}

func env(key, def string) string {
	if v := os.Getenv("UNIONHUB_" + key); v != "" {
		return v
	}
	return def
}

func connect(ctx context.Context) (*mongo.Database, func(), error) {
	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(env("MONGO_URI", "mongodb://localhost:27017")))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(env("MONGO_DATABASE", "union_hub")), func() { _ = client.Disconnect(context.Background()) }, nil
}

func mediaStore(ctx context.Context) (media.Store, error) {
	switch backend := env("MEDIA_BACKEND", "local"); backend {
	case "s3":
		return media.NewS3(ctx, media.S3Config{
			Region:        env("S3_REGION", ""),
			Bucket:        env("S3_BUCKET", ""),
			Endpoint:      env("S3_ENDPOINT", ""),
			PublicBaseURL: env("MEDIA_BASE_URL", ""),
		})
	case "local":
		return media.NewLocal(env("MEDIA_DIR", "./data/media"), env("MEDIA_BASE_URL", "/media"))
	default:
		return nil, fmt.Errorf("unknown media backend %q", backend)
	}
}
