// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	metricsstore "github.com/dalemusser/unionhub/internal/app/store/metrics"
	"github.com/dalemusser/unionhub/internal/app/system/notify"
	"github.com/dalemusser/unionhub/internal/app/system/timeouts"
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/app/system/viewstate"
	"go.uber.org/zap"
)

type adminData struct {
	viewdata.BaseVM

	ByRole   []metricsstore.Count
	ByStatus []metricsstore.Count
	Total    int64
}

// ServeAdmin renders role and membership-status counts. A failed count
// becomes a notice and that table is left empty.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request, _ viewstate.View, _ viewstate.UIState, base viewdata.BaseVM) {
	base.Title = "Admin Dashboard"
	data := adminData{BaseVM: base}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	byRole, err := metricsstore.CountByRole(ctx, h.DB)
	if err != nil {
		h.Log.Error("count identities by role", zap.Error(err))
		data.AddNotice(notify.Failure(notify.TitleError, "Failed to load role counts", err))
	}
	data.ByRole = byRole
	data.Total = metricsstore.Total(byRole)

	byStatus, err := metricsstore.CountByStatus(ctx, h.DB)
	if err != nil {
		h.Log.Error("count identities by status", zap.Error(err))
		data.AddNotice(notify.Failure(notify.TitleError, "Failed to load status counts", err))
	}
	data.ByStatus = byStatus

	h.Render(w, r, "admin_dashboard", data)
}
