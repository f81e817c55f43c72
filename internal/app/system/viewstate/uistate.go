package viewstate

import (
	"encoding/gob"

	"github.com/dalemusser/unionhub/internal/domain/models"
	"github.com/gorilla/sessions"
)

const uiStateKey = "ui_state"

func init() {
	gob.Register(UIState{})
}

// UIState is the UI-only state owned by the root page. It lives in the
// session and is dropped wholesale on logout.
type UIState struct {
	SelectedID      string
	OrganiserScreen OrganiserScreen
	ReportOpen      bool
	ProfileEditing  bool

	// Last search. Results holds identity ids in result order.
	Criteria  models.SearchCriteria
	Results   []string
	SearchSeq int64
}

// Reset returns the initial UI state.
func Reset() UIState {
	return UIState{}
}

// Load reads the UI state from sess. A missing or foreign value yields the
// initial state.
func Load(sess *sessions.Session) UIState {
	if st, ok := sess.Values[uiStateKey].(UIState); ok {
		return st
	}
	return Reset()
}

// Store writes st into sess. The caller saves the session.
func Store(sess *sessions.Session, st UIState) {
	sess.Values[uiStateKey] = st
}

// Clear removes the UI state from sess.
func Clear(sess *sessions.Session) {
	delete(sess.Values, uiStateKey)
}

// Select opens the detail view for id.
func (u *UIState) Select(id string) { u.SelectedID = id }

// CloseDetail returns to whichever screen was active before Select.
func (u *UIState) CloseDetail() { u.SelectedID = "" }

// SetOrganiserScreen switches the organiser sub-screen.
func (u *UIState) SetOrganiserScreen(s OrganiserScreen) { u.OrganiserScreen = s }

// OpenReport shows the issue form. Report and profile are exclusive.
func (u *UIState) OpenReport() {
	u.ReportOpen = true
	u.ProfileEditing = false
}

// CloseReport hides the issue form, after a submit or a cancel.
func (u *UIState) CloseReport() { u.ReportOpen = false }

// OpenProfile shows the member's own profile.
func (u *UIState) OpenProfile() {
	u.ProfileEditing = true
	u.ReportOpen = false
}

// CloseProfile returns to the member dashboard.
func (u *UIState) CloseProfile() { u.ProfileEditing = false }

// BeginSearch records a new search in flight and returns its sequence
// number. Results for any earlier number are stale from here on.
func (u *UIState) BeginSearch() int64 {
	u.SearchSeq++
	return u.SearchSeq
}

// ApplyResults replaces the result set when seq is still the latest search
// and switches to the list screen. It reports whether the results were
// applied.
func (u *UIState) ApplyResults(seq int64, c models.SearchCriteria, ids []string) bool {
	if seq != u.SearchSeq {
		return false
	}
	u.Criteria = c
	u.Results = ids
	u.OrganiserScreen = OrganiserList
	return true
}
