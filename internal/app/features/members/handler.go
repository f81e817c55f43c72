// internal/app/features/members/handler.go
package members

import (
	"context"

	uierrors "github.com/dalemusser/unionhub/internal/app/features/errors"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// IdentityStore is the slice of identitystore.Store the organiser flow
// and the detail view use.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (models.Identity, error)
	Search(ctx context.Context, c models.SearchCriteria) ([]models.Identity, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Identity, error)
	UpdateFields(ctx context.Context, id string, upd identitystore.Update) (int64, error)
}

// SiteLister feeds the site filter.
type SiteLister interface {
	List(ctx context.Context) ([]models.Site, error)
}

// Handler serves the organiser flow (search, list, message) and the
// member detail view.
type Handler struct {
	Identities IdentityStore
	Sites      SiteLister
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Render     viewdata.RenderFunc
}

func NewHandler(identities IdentityStore, sites SiteLister, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Identities: identities,
		Sites:      sites,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
		Render:     templates.Render,
	}
}
