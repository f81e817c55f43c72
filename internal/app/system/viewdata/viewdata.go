// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/domain/models"
)

// SiteName is shown in the header and page titles.
const SiteName = "Union Hub"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserID     string
	Role       string
	UserName   string
	AvatarURL  string
	Initials   string

	// Page context
	Title       string
	CurrentPath string

	// One-shot notifications popped from the session.
	Notices []notify.Notice
}

// NewBaseVM creates a BaseVM for the current request.
func NewBaseVM(r *http.Request, title string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		CurrentPath: r.URL.Path,
	}
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		vm.IsLoggedIn = true
		vm.UserID = u.ID
		vm.Role = u.Role
		vm.UserName = u.Name
		vm.AvatarURL = u.AvatarURL
		vm.Initials = models.Identity{FullName: u.Name}.Initials()
	}
	return vm
}

// AddNotice appends a notice to show on this render.
func (vm *BaseVM) AddNotice(n notify.Notice) {
	vm.Notices = append(vm.Notices, n)
}

// RenderFunc renders a named template with data. templates.Render is the
// production implementation; handler tests substitute a recorder.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)
