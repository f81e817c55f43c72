// internal/app/features/dashboard/member.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"github.com/dalemusser/unionhub/internal/domain/models"
	"go.uber.org/zap"
)

type memberData struct {
	viewdata.BaseVM

	Greeting string
	Reports  []models.IssueReport
}

// ServeMember renders the member home: greeting, avatar, the report and
// profile actions, and the member's latest reports.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Dashboard"
	data := memberData{BaseVM: base, Greeting: greeting(base.UserName)}

	if h.Reports != nil && base.UserID != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		reports, err := h.Reports.ListByReporter(ctx, base.UserID, recentReports)
		cancel()
		if err != nil {
			h.Log.Error("list own issue reports", zap.String("identity_id", base.UserID), zap.Error(err))
			data.AddNotice(notify.Failure(notify.TitleIssue, "Failed to load your reports", err))
		}
		data.Reports = reports
	}

	h.Render(w, r, "member_dashboard", data)
}

func greeting(name string) string {
	if name == "" {
		return "Kia ora!"
	}
	return "Kia ora, " + name + "!"
}
