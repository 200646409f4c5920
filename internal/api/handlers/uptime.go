package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// UptimeReport computes the availability report for a window
func (h *Handlers) UptimeReport(c *gin.Context) {
	periodStart, err := time.Parse(time.RFC3339, c.Query("period_start"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid period_start timestamp")
		return
	}
	periodEnd, err := time.Parse(time.RFC3339, c.Query("period_end"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid period_end timestamp")
		return
	}

	request := &models.UptimeReportRequest{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GroupBy:     models.UptimeGroupBy(c.DefaultQuery("group_by", "device")),
	}

	report, err := h.uptimeService.Report(c.Request.Context(), request)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, report)
}
