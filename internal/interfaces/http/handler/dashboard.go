package handler

import (
	appreport "github.com/gadgetstock/backend/internal/application/report"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the per-branch summary
type DashboardHandler struct {
	BaseHandler
	dashboards *appreport.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *appreport.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// GetDashboard godoc
// @ID           getDashboard
// @Summary      Branch dashboard
// @Description  Available units, units sold today, pending transfers and accessory totals. The admin branch sees every branch.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	result, err := h.dashboards.Dashboard(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
