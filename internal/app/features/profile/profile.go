// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	identitystore "github.com/dalemusser/unionhub/internal/app/store/identities"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/inputval"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"go.uber.org/zap"
)

// ServeProfile renders the member's own record. A failed fetch becomes a
// notice and the page renders without the record.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "My profile"
	data := profileData{BaseVM: base}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	me, err := h.Identities.GetByID(ctx, base.UserID)
	if err != nil {
		h.Log.Error("load own profile", zap.String("identity_id", base.UserID), zap.Error(err))
		data.AddNotice(notify.Failure(notify.TitleProfile, notify.MsgUnknown, err))
	} else {
		data.Me = &me
	}

	h.Render(w, r, "profile", data)
}

// HandleOpen switches the member dashboard to the profile screen.
// POST /profile/open
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.OpenProfile() })
}

// HandleClose returns to the member dashboard.
// POST /profile/close
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.CloseProfile() })
}

// HandleName updates the member's display name.
// POST /profile/name
func (h *Handler) HandleName(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		flow.Redirect(w, r)
		return
	}

	f := nameForm{FullName: normalize.Name(r.PostFormValue("full_name"))}
	if errs := inputval.Check(f); errs != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, errs.First(), nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	n, err := h.Identities.UpdateFields(ctx, u.ID, identitystore.Update{FullName: &f.FullName})
	switch {
	case err != nil:
		h.Log.Error("update own name", zap.String("identity_id", u.ID), zap.Error(err))
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgProfileError, err))
	case n == 0:
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgMemberNotFound, nil))
	default:
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Done(notify.TitleProfile, notify.MsgProfileUpdated))
	}
}

// HandleAvatar uploads a new photo to avatars/<id>.jpg and then points the
// identity at it. The two steps fail with different messages; a failed
// save leaves the uploaded object in place.
// POST /profile/avatar
func (h *Handler) HandleAvatar(w http.ResponseWriter, r *http.Request) {
	if err := flow.ParseUpload(w, r); err != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgPhotoError, err))
		return
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		flow.Redirect(w, r)
		return
	}

	file, size, err := flow.FormImage(r, "avatar")
	if err != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgPhotoError, err))
		return
	}
	if file == nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgPhotoError, media.ErrEmptyUpload))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	url, err := media.Upload(ctx, h.Media, media.ImageKey(media.AvatarPrefix, u.ID), file, size)
	if err != nil {
		h.Log.Error("upload avatar", zap.String("identity_id", u.ID), zap.Error(err))
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgPhotoError, err))
		return
	}
	matched, err := h.Identities.SetAvatarURL(ctx, u.ID, url)
	if err != nil {
		h.Log.Error("save avatar url", zap.String("identity_id", u.ID), zap.Error(err))
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgPhotoSaveError, err))
		return
	}
	if matched == 0 {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleProfile, notify.MsgMemberNotFound, nil))
		return
	}
	h.Log.Info("avatar updated", zap.String("identity_id", u.ID))
	flow.Notify(w, r, h.SessionMgr, h.Log, notify.Done(notify.TitleProfile, notify.MsgPhotoUploaded))
}
