package handler

import (
	"context"
	"net/http"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*usecase.Dashboard, error)
}

// DashboardHandler handles dashboard HTTP requests.
type DashboardHandler struct {
	dashboardUC DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC}
}

// Get returns the caller's dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	dashboard, err := h.dashboardUC.GetDashboard(r.Context(), actorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(dashboard))
}
