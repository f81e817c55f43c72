// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/unionhub/internal/app/resources"
	sessionstore "github.com/dalemusser/unionhub/internal/app/store/sessions"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// jobs is the background scheduler. Startup starts it, BuildHandler adds
// handler-owned sweeps and Shutdown stops it.
var jobs *workers.Scheduler

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it
// registers the shared templates and starts the session cleanup job.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	jobs = workers.NewScheduler(logger)
	sessions := sessionstore.New(deps.MongoDatabase)
	if err := jobs.AddSessionCleanup(appCfg.SessionCleanupSchedule, sessions, appCfg.SessionInactiveAfter, timeouts.Medium()); err != nil {
		return fmt.Errorf("schedule session cleanup %q: %w", appCfg.SessionCleanupSchedule, err)
	}
	jobs.Start()
	return nil
}
