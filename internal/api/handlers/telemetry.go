package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// RecordMetric ingests one metric sample and runs the evaluation pipeline
func (h *Handlers) RecordMetric(c *gin.Context) {
	var request models.RecordMetricRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	metric, err := h.telemetryService.Record(c.Request.Context(), &request)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}

	utils.SendCreated(c, metric)
}

// ListMetrics retrieves metric samples matching the query filters
func (h *Handlers) ListMetrics(c *gin.Context) {
	filter := &models.MetricFilter{}

	if v := c.Query("device_id"); v != "" {
		filter.DeviceID = &v
	}
	if v := c.Query("interface_id"); v != "" {
		filter.InterfaceID = &v
	}
	if v := c.Query("metric_type"); v != "" {
		filter.MetricType = &v
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid from timestamp")
			return
		}
		filter.RecordedFrom = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid to timestamp")
			return
		}
		filter.RecordedTo = &to
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	metrics, err := h.telemetryService.List(c.Request.Context(), filter)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}

	utils.SendSuccessWithMeta(c, metrics, utils.PageMeta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Count:  len(metrics),
	})
}
