// internal/app/features/members/organiser.go
package members

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/unionhub/internal/app/features/shared/flow"
	"github.com/dalemusser/unionhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/unionhub/internal/app/system/inputval"
	"github.com/dalemusser/unionhub/internal/app/system/normalize"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Screens                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeOrganiser renders the organiser sub-screen chosen by the selector.
func (h *Handler) ServeOrganiser(w http.ResponseWriter, r *http.Request, v viewstate.View, ui viewstate.UIState, base viewdata.BaseVM) {
	switch v.Organiser {
	case viewstate.OrganiserList:
		h.serveList(w, r, ui, base)
	case viewstate.OrganiserMessage:
		base.Title = "Message members"
		h.Render(w, r, "members_message", messageData{BaseVM: base, Count: len(ui.Results)})
	default:
		h.serveSearch(w, r, ui, base)
	}
}

func (h *Handler) serveSearch(w http.ResponseWriter, r *http.Request, ui viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Find members"
	data := searchData{BaseVM: base, Criteria: ui.Criteria, Count: len(ui.Results)}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	sites, err := h.Sites.List(ctx)
	if err != nil {
		h.Log.Error("list sites", zap.Error(err))
		data.AddNotice(notify.Failure(notify.TitleSearch, "Failed to load sites", err))
	}
	data.Sites = sites

	h.Render(w, r, "members_search", data)
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, ui viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Members"
	data := listData{BaseVM: base, Criteria: ui.Criteria}

	if len(ui.Results) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		rows, err := h.Identities.ListByIDs(ctx, ui.Results)
		if err != nil {
			h.Log.Error("load search results", zap.Int("count", len(ui.Results)), zap.Error(err))
			data.AddNotice(notify.Failure(notify.TitleSearch, notify.MsgSearchError, err))
		}
		data.Members = rows
	}

	h.Render(w, r, "members_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Actions                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleScreen switches the organiser sub-screen.
// POST /members/screen
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	scr, ok := viewstate.ParseOrganiserScreen(r.PostFormValue("screen"))
	if !ok {
		scr = viewstate.OrganiserSearch
	}
	flow.UpdateUI(w, r, h.SessionMgr, h.Log, func(ui *viewstate.UIState) {
		ui.SetOrganiserScreen(scr)
	})
}

// HandleSearch runs a search and replaces the result set.
//
// The search number is bumped and saved before the query runs. Once the
// query returns, the session is read again and the results are applied only
// if no newer search started meanwhile; otherwise they are dropped.
// POST /members/search
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}
	f := searchForm{
		Name:       normalize.Name(r.PostFormValue("name")),
		Site:       strings.TrimSpace(r.PostFormValue("site")),
		ActiveOnly: r.PostFormValue("active") != "",
	}
	if errs := inputval.Check(f); errs != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleSearch, errs.First(), nil))
		return
	}
	criteria := models.SearchCriteria{Name: f.Name, Site: f.Site, ActiveOnly: f.ActiveOnly}

	sess := h.SessionMgr.Session(r)
	ui := viewstate.Load(sess)
	seq := ui.BeginSearch()
	viewstate.Store(sess, ui)
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("save session before search", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	rows, searchErr := h.Identities.Search(ctx, criteria)
	cancel()

	fresh, err := h.SessionMgr.Reload(r)
	if err != nil {
		h.Log.Warn("reload session after search", zap.Error(err))
		fresh = sess
	}
	ui = viewstate.Load(fresh)

	if ui.SearchSeq != seq {
		h.Log.Info("dropping stale search results",
			zap.Int64("seq", seq), zap.Int64("latest", ui.SearchSeq))
		flow.Redirect(w, r)
		return
	}

	if searchErr != nil {
		h.Log.Error("member search failed", zap.Error(searchErr))
		notify.Push(fresh, notify.Failure(notify.TitleSearch, notify.MsgSearchError, searchErr))
		flow.Finish(w, r, fresh, h.Log)
		return
	}

	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	ui.ApplyResults(seq, criteria, ids)
	viewstate.Store(fresh, ui)
	flow.Finish(w, r, fresh, h.Log)
}

// HandleMessage confirms a message to everyone in the current result set.
// Delivery is simulated: the body is sanitised and counted, never sent.
// POST /members/message
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	f := messageForm{Body: htmlsanitize.PlainText(r.PostFormValue("body"))}
	if errs := inputval.Check(f); errs != nil {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleMessage, errs.First(), nil))
		return
	}
	if f.Body == "" {
		flow.Notify(w, r, h.SessionMgr, h.Log, notify.Failure(notify.TitleMessage, notify.MsgMessageEmpty, nil))
		return
	}

	sess := h.SessionMgr.Session(r)
	ui := viewstate.Load(sess)
	if len(ui.Results) == 0 {
		notify.Push(sess, notify.Failure(notify.TitleMessage, notify.MsgNoRecipients, nil))
		flow.Finish(w, r, sess, h.Log)
		return
	}

	h.Log.Info("message composed",
		zap.Int("recipients", len(ui.Results)),
		zap.Int("body_len", len(f.Body)))

	ui.SetOrganiserScreen(viewstate.OrganiserList)
	viewstate.Store(sess, ui)
	notify.Push(sess, notify.Done(notify.TitleMessage, notify.MessageSent(len(ui.Results))))
	flow.Finish(w, r, sess, h.Log)
}
