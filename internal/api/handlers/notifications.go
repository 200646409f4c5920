package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// ListNotifications retrieves queued and sent notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	var status *models.NotificationStatus
	if v := c.Query("status"); v != "" {
		parsed, err := models.ParseNotificationStatus(v)
		if err != nil {
			middleware.HandleServiceError(c, h.log, err)
			return
		}
		status = &parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.notificationService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}

	utils.SendSuccessWithMeta(c, notifications, utils.PageMeta{
		Limit:  limit,
		Offset: offset,
		Count:  len(notifications),
	})
}

// GetNotification retrieves one notification
func (h *Handlers) GetNotification(c *gin.Context) {
	notification, err := h.notificationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, notification)
}

// ListAlertNotifications retrieves the notification log for one alert
func (h *Handlers) ListAlertNotifications(c *gin.Context) {
	logs, err := h.notificationService.ListForAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, logs)
}

// ClaimDueNotifications hands due queued notifications to the delivery worker
func (h *Handlers) ClaimDueNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	claimed, err := h.notificationService.ClaimDue(c.Request.Context(), limit)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, claimed)
}

// RecordNotificationDelivery stores the delivery worker's outcome
func (h *Handlers) RecordNotificationDelivery(c *gin.Context) {
	var request struct {
		Status            string  `json:"status" binding:"required"`
		ProviderMessageID *string `json:"provider_message_id"`
		ProviderResponse  *string `json:"provider_response"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	delivery := &models.NotificationDelivery{
		NotificationID:    c.Param("id"),
		Status:            models.NotificationStatus(request.Status),
		ProviderMessageID: request.ProviderMessageID,
		ProviderResponse:  request.ProviderResponse,
	}
	if err := h.notificationService.RecordDelivery(c.Request.Context(), delivery); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, delivery)
}
