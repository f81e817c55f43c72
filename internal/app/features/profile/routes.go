// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/open", h.HandleOpen)
		pr.Post("/close", h.HandleClose)
		pr.Post("/name", h.HandleName)
		pr.Post("/avatar", h.HandleAvatar)
	})
	return r
}
