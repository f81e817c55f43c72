// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
	BackURL string
}

// Handler renders the error pages. No DB needed.
type Handler struct {
	Render viewdata.RenderFunc
}

func NewHandler() *Handler {
	return &Handler{Render: templates.Render}
}

// Forbidden renders "access denied".
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusForbidden, "Access denied", "You don't have permission to view this page.", "/")
}

// Unauthorized renders "sign in required".
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", "/")
}

// NotFound is the router's 404 handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusNotFound, "Page not found", "The page you asked for does not exist.", "/")
}

// ServeRoleError is the root page for a signed-in user whose role has no
// screen. It offers only logout.
func (h *Handler) ServeRoleError(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Account problem"
	h.Render(w, r, "error_role", pageData{
		BaseVM:  base,
		Message: "Your account role is not recognised. Please contact your organiser.",
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, title, msg, back string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title),
		Message: msg,
		BackURL: back,
	})
}
