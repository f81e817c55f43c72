// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"

	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// recentReports is how many of a member's own reports the dashboard lists.
const recentReports = 5

// ReportLister lists a member's issue reports, newest first.
type ReportLister interface {
	ListByReporter(ctx context.Context, reporterID string, limit int64) ([]models.IssueReport, error)
}

// Handler renders the admin and member dashboards. It has no routes of its
// own; the root page calls ServeAdmin and ServeMember.
type Handler struct {
	DB      *mongo.Database
	Reports ReportLister
	Log     *zap.Logger
	Render  viewdata.RenderFunc
}

func NewHandler(db *mongo.Database, reports ReportLister, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Reports: reports,
		Log:     logger,
		Render:  templates.Render,
	}
}
