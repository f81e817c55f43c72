// internal/app/features/issues/routes.go
package issues

import (
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleMember, models.RoleDelegate))
		pr.Post("/", h.HandleSubmit)
		pr.Post("/open", h.HandleOpen)
		pr.Post("/cancel", h.HandleCancel)
	})
	return r
}
