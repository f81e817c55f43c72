// internal/app/features/profile/handler.go
package profile

import (
	"context"

	uierrors "github.com/dalemusser/unionhub/internal/app/features/errors"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// IdentityStore is the part of the identity store the profile screen uses.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (models.Identity, error)
	UpdateFields(ctx context.Context, id string, upd identitystore.Update) (int64, error)
	SetAvatarURL(ctx context.Context, id, url string) (int64, error)
}

// Handler owns the signed-in member's own profile.
type Handler struct {
	Identities IdentityStore
	Media      media.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Render     viewdata.RenderFunc
}

// NewHandler constructs a profile Handler.
func NewHandler(ids IdentityStore, store media.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Identities: ids,
		Media:      store,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
		Render:     templates.Render,
	}
}

// profileData is the view model for the profile screen.
type profileData struct {
	viewdata.BaseVM
	Me *models.Identity
}

// nameForm is POST /profile/name.
type nameForm struct {
	FullName string `form:"full_name" validate:"required,max=200"`
}
