// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the organiser and detail actions. Screens are rendered by
// the root page.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		// Any role can leave a detail view.
		pr.Post("/detail/close", h.HandleClose)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleOrganiser, models.RoleAdmin))
		pr.Post("/screen", h.HandleScreen)
		pr.Post("/search", h.HandleSearch)
		pr.Post("/message", h.HandleMessage)
		pr.Post("/select", h.HandleSelect)
		pr.Post("/detail/update", h.HandleUpdate)
	})

	return r
}
