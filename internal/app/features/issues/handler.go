// internal/app/features/issues/handler.go
package issues

import (
	"context"

	uierrors "github.com/dalemusser/unionhub/internal/app/features/errors"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ReportStore records issue reports and their images.
type ReportStore interface {
	Insert(ctx context.Context, r models.IssueReport) (models.IssueReport, error)
	InsertImage(ctx context.Context, img models.IssueImage) (models.IssueImage, error)
}

// Handler serves the member's issue report form.
type Handler struct {
	Reports    ReportStore
	Media      media.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Render     viewdata.RenderFunc
}

func NewHandler(reports ReportStore, store media.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Reports:    reports,
		Media:      store,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
		Render:     templates.Render,
	}
}

type formData struct {
	viewdata.BaseVM
	Categories []string
}
