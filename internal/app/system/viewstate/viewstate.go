// Package viewstate decides which screen the root page shows.
//
// Select is a pure function of the signed-in user and the UI state kept in
// the session. Screens never render each other directly: every action
// updates UIState and redirects to "/", where Select runs again.
//
// Precedence, first match wins:
//
//  1. no user                    → Login
//  2. a record selected          → Detail (for every role)
//  3. admin                      → AdminDashboard
//  4. organiser                  → OrganiserFlow(search | list | message)
//  5. member, delegate           → MemberDashboard(report | profile | dashboard)
//  6. anything else              → Error
package viewstate

import (
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/domain/models"
)

// Kind tags the variant of View.
type Kind int

const (
	KindLogin Kind = iota
	KindDetail
	KindAdminDashboard
	KindOrganiserFlow
	KindMemberDashboard
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindDetail:
		return "detail"
	case KindAdminDashboard:
		return "admin_dashboard"
	case KindOrganiserFlow:
		return "organiser_flow"
	case KindMemberDashboard:
		return "member_dashboard"
	default:
		return "error"
	}
}

// OrganiserScreen is the organiser's three-state sub-screen selector.
type OrganiserScreen string

const (
	OrganiserSearch  OrganiserScreen = "search"
	OrganiserList    OrganiserScreen = "list"
	OrganiserMessage OrganiserScreen = "message"
)

// ParseOrganiserScreen maps form input to a screen; ok is false for
// unknown values.
func ParseOrganiserScreen(s string) (OrganiserScreen, bool) {
	switch OrganiserScreen(s) {
	case OrganiserSearch, OrganiserList, OrganiserMessage:
		return OrganiserScreen(s), true
	}
	return "", false
}

// MemberScreen is the member dashboard's sub-screen.
type MemberScreen string

const (
	MemberHome    MemberScreen = "dashboard"
	MemberReport  MemberScreen = "report"
	MemberProfile MemberScreen = "profile"
)

// View is the screen to render. Organiser is set only for KindOrganiserFlow,
// Member only for KindMemberDashboard and SelectedID only for KindDetail.
type View struct {
	Kind       Kind
	Organiser  OrganiserScreen
	Member     MemberScreen
	SelectedID string
}

// State is the input to Select.
type State struct {
	User *auth.SessionUser // nil when signed out
	UI   UIState
}

// Select returns the screen for st.
func Select(st State) View {
	if st.User == nil {
		return View{Kind: KindLogin}
	}
	if st.UI.SelectedID != "" {
		return View{Kind: KindDetail, SelectedID: st.UI.SelectedID}
	}

	switch st.User.Role {
	case models.RoleAdmin:
		return View{Kind: KindAdminDashboard}
	case models.RoleOrganiser:
		scr, ok := ParseOrganiserScreen(string(st.UI.OrganiserScreen))
		if !ok {
			scr = OrganiserSearch
		}
		return View{Kind: KindOrganiserFlow, Organiser: scr}
	case models.RoleMember, models.RoleDelegate:
		switch {
		case st.UI.ReportOpen:
			return View{Kind: KindMemberDashboard, Member: MemberReport}
		case st.UI.ProfileEditing:
			return View{Kind: KindMemberDashboard, Member: MemberProfile}
		default:
			return View{Kind: KindMemberDashboard, Member: MemberHome}
		}
	}
	return View{Kind: KindError}
}
