package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// ListAlerts retrieves alerts matching the query filters
func (h *Handlers) ListAlerts(c *gin.Context) {
	filter := &models.AlertFilter{}

	if v := c.Query("rule_id"); v != "" {
		filter.RuleID = &v
	}
	if v := c.Query("device_id"); v != "" {
		filter.DeviceID = &v
	}
	if v := c.Query("interface_id"); v != "" {
		filter.InterfaceID = &v
	}
	if v := c.Query("status"); v != "" {
		status, err := models.ParseAlertStatus(v)
		if err != nil {
			middleware.HandleServiceError(c, h.log, err)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("severity"); v != "" {
		severity, err := models.ParseSeverity(v)
		if err != nil {
			middleware.HandleServiceError(c, h.log, err)
			return
		}
		filter.Severity = &severity
	}
	filter.OrderBy = c.DefaultQuery("order_by", "triggered_at")
	filter.OrderDir = c.DefaultQuery("order_dir", "desc")
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	alerts, err := h.alertService.List(c.Request.Context(), filter)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}

	utils.SendSuccessWithMeta(c, alerts, utils.PageMeta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Count:  len(alerts),
	})
}

// GetAlert retrieves one alert
func (h *Handlers) GetAlert(c *gin.Context) {
	alert, err := h.alertService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, alert)
}

// ListAlertEvents retrieves an alert's audit trail
func (h *Handlers) ListAlertEvents(c *gin.Context) {
	events, err := h.alertService.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, events)
}

type alertTransitionRequest struct {
	Message *string `json:"message"`
}

// AcknowledgeAlert marks an alert acknowledged
func (h *Handlers) AcknowledgeAlert(c *gin.Context) {
	var request alertTransitionRequest
	if err := c.ShouldBindJSON(&request); err != nil && c.Request.ContentLength > 0 {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	alert, err := h.alertService.Acknowledge(c.Request.Context(), c.Param("id"), request.Message)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, alert)
}

// ResolveAlert marks an alert resolved
func (h *Handlers) ResolveAlert(c *gin.Context) {
	var request alertTransitionRequest
	if err := c.ShouldBindJSON(&request); err != nil && c.Request.ContentLength > 0 {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	alert, err := h.alertService.Resolve(c.Request.Context(), c.Param("id"), request.Message)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, alert)
}

type bulkAlertRequest struct {
	AlertIDs []string `json:"alert_ids" binding:"required"`
	Message  *string  `json:"message"`
}

// BulkAcknowledgeAlerts acknowledges a batch of alerts atomically
func (h *Handlers) BulkAcknowledgeAlerts(c *gin.Context) {
	var request bulkAlertRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.alertService.BulkAcknowledge(c.Request.Context(), request.AlertIDs, request.Message)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"acknowledged": count})
}

// BulkResolveAlerts resolves a batch of alerts atomically
func (h *Handlers) BulkResolveAlerts(c *gin.Context) {
	var request bulkAlertRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.alertService.BulkResolve(c.Request.Context(), request.AlertIDs, request.Message)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"resolved": count})
}
