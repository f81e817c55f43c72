// internal/app/features/issues/report.go
package issues

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	"github.com/dalemusser/unionhub/internal/app/system/auth"
	"github.com/dalemusser/unionhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/unionhub/internal/app/system/media"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeForm renders the report form as the member's report screen.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Report an issue"
	h.Render(w, r, "issue_form", formData{BaseVM: base, Categories: models.IssueCategories})
}

// HandleOpen shows the report form.
// POST /issues/open
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.OpenReport() })
}

// HandleCancel closes the report form without saving.
// POST /issues/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.CloseReport() })
}

// HandleSubmit records a report in up to three steps: insert the report,
// upload the optional image, link the image to the report. Each step has
// its own failure message and nothing is undone when a later step fails.
// The form closes only when every step succeeded.
// POST /issues
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := flow.ParseUpload(w, r); err != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleIssue, notify.MsgIssueError, err))
		return
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		flow.Redirect(w, r)
		return
	}

	category := strings.TrimSpace(r.PostFormValue("category"))
	if !models.IsIssueCategory(category) {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleIssue, "Please choose a category", nil))
		return
	}

	image, size, imgErr := flow.FormImage(r, "image")
	if image != nil {
		defer image.Close()
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	rep, err := h.Reports.Insert(ctx, models.IssueReport{
		ReporterID:  u.ID,
		Category:    category,
		Description: htmlsanitize.PlainText(r.PostFormValue("description")),
		Urgent:      r.PostFormValue("urgent") != "",
	})
	if err != nil {
		h.Log.Error("insert issue report", zap.String("identity_id", u.ID), zap.Error(err))
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleIssue, notify.MsgIssueError, err))
		return
	}
	h.Log.Info("issue reported", zap.String("issue_id", rep.ID), zap.String("category", rep.Category), zap.Bool("urgent", rep.Urgent))

	n := notify.Done(notify.TitleIssue, notify.MsgIssueSubmitted)
	switch {
	case imgErr != nil:
		n = notify.Failure(notify.TitleIssue, notify.MsgIssueImageError, imgErr)
	case image != nil:
		n = h.attachImage(ctx, rep, image, size)
	}

	if n.Level != notify.Success {
		flow.Notify(w, r, h.SessionMgr, h.Log, n)
		return
	}
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) { ui.CloseReport() }, n)
}

func (h *Handler) attachImage(ctx context.Context, rep models.IssueReport, body io.Reader, size int64) notify.Notice {
	url, err := media.Upload(ctx, h.Media, media.ImageKey(media.IssuePrefix, rep.ID), body, size)
	if err != nil {
		h.Log.Error("upload issue image", zap.String("issue_id", rep.ID), zap.Error(err))
		return notify.Failure(notify.TitleIssue, notify.MsgIssueImageError, err)
	}
	if _, err := h.Reports.InsertImage(ctx, models.IssueImage{IssueID: rep.ID, ImageURL: url}); err != nil {
		h.Log.Error("link issue image", zap.String("issue_id", rep.ID), zap.Error(err))
		return notify.Failure(notify.TitleIssue, notify.MsgIssueImageLinkError, err)
	}
	return notify.Done(notify.TitleIssue, notify.MsgIssueSubmitted)
}
