// internal/app/features/members/detail.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	"github.com/dalemusser/unionhub/internal/app/system/inputval"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeDetail renders the selected record. A missing record or failed
// fetch still renders the page so the user can close it.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request, v viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Member details"
	data := detailData{BaseVM: base, CanEdit: canEdit(base.Role)}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	m, err := h.Identities.GetByID(ctx, v.SelectedID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		data.AddNotice(notify.Failure(notify.TitleMember, notify.MsgMemberMissing, nil))
	case err != nil:
		h.Log.Error("load member", zap.String("id", v.SelectedID), zap.Error(err))
		data.AddNotice(notify.Failure(notify.TitleMember, notify.MsgUnknown, err))
	default:
		data.Member = &m
	}

	h.Render(w, r, "members_detail", data)
}

func canEdit(role string) bool {
	return role == models.RoleAdmin || role == models.RoleOrganiser
}

// HandleSelect opens the detail view for a record.
// POST /members/select
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PostFormValue("id"))
	if id == "" {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleMember, notify.MsgMemberMissing, nil))
		return
	}
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.Select(id) })
}

// HandleClose leaves the detail view for whatever screen was active.
// POST /members/detail/close
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.CloseDetail() })
}

// HandleUpdate saves the name and membership status of a record. The UI
// state is left as it is whatever the outcome.
// POST /members/detail/update
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}
	f := updateForm{
		ID:               strings.TrimSpace(r.PostFormValue("id")),
		FullName:         normalize.Name(r.PostFormValue("full_name")),
		MembershipStatus: normalize.Status(r.PostFormValue("membership_status")),
	}
	if errs := inputval.Check(f); errs != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleMember, errs.First(), nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	matched, err := h.Identities.UpdateFields(ctx, f.ID, identitystore.Update{
		FullName:         &f.FullName,
		MembershipStatus: &f.MembershipStatus,
	})

	var n notify.Notice
	switch {
	case err != nil:
		h.Log.Error("update member", zap.String("id", f.ID), zap.Error(err))
		n = notify.Failure(notify.TitleMember, notify.MsgMemberError, err)
	case matched == 0:
		n = notify.Failure(notify.TitleMember, notify.MsgMemberNotFound, nil)
	default:
		h.Log.Info("member updated", zap.String("id", f.ID))
		n = notify.Done(notify.TitleMember, notify.MsgMemberSaved)
	}
	flow.Notify(w, r, h.SessionMgr, h.Log, n)
}
