package handlers

import (
	"net/http"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/dashboard"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
)

// DashboardHandler serves the company rollup.
type DashboardHandler struct {
	aggregator *dashboard.Aggregator
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(aggregator *dashboard.Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	summary, err := h.aggregator.Summarize(r.Context(), claims.CompanyID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
